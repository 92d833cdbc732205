// Package redis persists cascade results in Redis, keyed per run and node,
// with an optional TTL so finished runs age out on their own.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Store implements ports.ResultStore using Redis.
//
// Layout:
//
//	<prefix><runID>:node:<nodeID>  JSON GenerationOutput
//	<prefix><runID>:nodes          SET of node IDs, for DeleteRun
//	<prefix>index                  ZSET of run IDs, scored by expiry
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for run results.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for run results.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "cascade:run:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) resultKey(runID string, nodeID domain.NodeID) string {
	return fmt.Sprintf("%s%s:node:%s", s.prefix, runID, nodeID)
}

func (s *Store) nodesKey(runID string) string {
	return s.prefix + runID + ":nodes"
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// SaveResult persists one node's output within a run.
func (s *Store) SaveResult(ctx context.Context, runID string, out *domain.GenerationOutput) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.resultKey(runID, out.NodeID), data, s.ttl)
	pipe.SAdd(ctx, s.nodesKey(runID), string(out.NodeID))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.nodesKey(runID), s.ttl)
	}

	// Index score = expiry time, so List can lazily prune aged-out runs.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01 (Far enough for now)
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: runID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// LoadResult retrieves one node's output.
func (s *Store) LoadResult(ctx context.Context, runID string, nodeID domain.NodeID) (*domain.GenerationOutput, error) {
	val, err := s.client.Get(ctx, s.resultKey(runID, nodeID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("load result %s/%s: %w", runID, nodeID, domain.ErrResultNotFound)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var out domain.GenerationOutput
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &out, nil
}

// DeleteRun removes every result recorded for a run.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	nodes, err := s.client.SMembers(ctx, s.nodesKey(runID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list run nodes: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, nodeID := range nodes {
		pipe.Del(ctx, s.resultKey(runID, domain.NodeID(nodeID)))
	}
	pipe.Del(ctx, s.nodesKey(runID))
	pipe.ZRem(ctx, s.indexKey(), runID)

	_, err = pipe.Exec(ctx)
	return err
}

// ListRuns returns the IDs of runs with at least one stored result, pruning
// expired entries from the index first.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

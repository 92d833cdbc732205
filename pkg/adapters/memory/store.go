package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Store implements ports.ResultStore in memory. Useful for tests and for
// runs whose outputs only need to live as long as the process.
type Store struct {
	mu      sync.RWMutex
	results map[string]map[domain.NodeID]domain.GenerationOutput
	order   []string
}

// NewStore creates an empty in-memory result store.
func NewStore() *Store {
	return &Store{results: make(map[string]map[domain.NodeID]domain.GenerationOutput)}
}

// SaveResult implements ports.ResultStore. Saving the same node twice keeps
// the latest output.
func (s *Store) SaveResult(ctx context.Context, runID string, out *domain.GenerationOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.results[runID]
	if !ok {
		run = make(map[domain.NodeID]domain.GenerationOutput)
		s.results[runID] = run
		s.order = append(s.order, runID)
	}
	// Copy on write so the caller can't mutate stored results by pointer.
	run[out.NodeID] = *out
	return nil
}

// LoadResult implements ports.ResultStore.
func (s *Store) LoadResult(ctx context.Context, runID string, nodeID domain.NodeID) (*domain.GenerationOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.results[runID]
	if !ok {
		return nil, fmt.Errorf("load result %s/%s: %w", runID, nodeID, domain.ErrResultNotFound)
	}
	out, ok := run[nodeID]
	if !ok {
		return nil, fmt.Errorf("load result %s/%s: %w", runID, nodeID, domain.ErrResultNotFound)
	}
	ret := out
	return &ret, nil
}

// DeleteRun implements ports.ResultStore. Deleting an unknown run is a no-op.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[runID]; !ok {
		return nil
	}
	delete(s.results, runID)
	for i, id := range s.order {
		if id == runID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListRuns implements ports.ResultStore. Runs are returned in the order
// their first result was saved.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

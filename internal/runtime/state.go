package runtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Store holds the single live RunState for a cascade engine.
//
// It enforces the single-writer discipline: all mutation goes through the
// Executor's command methods (which call the mutators below), while any
// number of readers pull consistent copies via Snapshot. Hooks fire after
// the mutation is visible, outside the lock, on the executor's goroutine.
type Store struct {
	mu    sync.RWMutex
	snap  domain.RunSnapshot
	hooks domain.RunHooks

	logger *slog.Logger
}

// NewStore creates a state store in the Idle state.
func NewStore(hooks domain.RunHooks, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		snap:   domain.RunSnapshot{Status: domain.StatusIdle},
		hooks:  hooks,
		logger: logger,
	}
}

// Snapshot returns a consistent copy of the current run state. Safe to call
// from any goroutine; mutating the returned value has no effect on the run.
func (s *Store) Snapshot() domain.RunSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

// Status returns the current run status.
func (s *Store) Status() domain.RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Status
}

// BeginRun discards any prior (terminal) state and initializes a fresh run.
func (s *Store) BeginRun(ctx context.Context, runID string, plan *Plan) {
	s.mu.Lock()
	skipped := make([]domain.SkippedNode, len(plan.Skipped))
	copy(skipped, plan.Skipped)
	s.snap = domain.RunSnapshot{
		RunID:       runID,
		Status:      domain.StatusRunning,
		RootID:      plan.RootID,
		TotalLevels: len(plan.Levels),
		TotalNodes:  plan.TotalNodes,
		Completed:   []domain.NodeID{},
		Skipped:     skipped,
		Failed:      []domain.FailedNode{},
		StartedAt:   time.Now(),
		// The preview toggle deliberately survives across runs; the operator
		// sets it once per session.
		SkipAllPreviews: s.snap.SkipAllPreviews,
	}
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.logger.Info("cascade started", "run_id", runID, "root_id", plan.RootID,
		"levels", snap.TotalLevels, "nodes", snap.TotalNodes, "skipped", len(snap.Skipped))

	s.emitRun(ctx, domain.EventRunStart, snap, s.hooks.OnRunStart)
	for _, sk := range snap.Skipped {
		s.emitSkipped(ctx, snap.RunID, sk)
	}
}

// SetStatus transitions the run status. Terminal transitions must go through
// EndRun instead. Cancelling is one-way: once entered, only EndRun can move
// the status again, which makes the control commands safely racy against the
// executor loop settling an in-flight node. Writes tagged with a runID other
// than the live run's are dropped, so a command latched against a run that
// finished in the meantime cannot touch its successor.
func (s *Store) SetStatus(ctx context.Context, runID string, status domain.RunStatus) {
	s.mu.Lock()
	if s.snap.RunID != runID || s.snap.Status == status || s.snap.Status.Terminal() || s.snap.Status == domain.StatusCancelling {
		s.mu.Unlock()
		return
	}
	s.snap.Status = status
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.logger.Debug("status changed", "run_id", snap.RunID, "status", status)
	s.emitRun(ctx, domain.EventStatusChange, snap, s.hooks.OnStatusChange)
}

// EnterLevel advances the current level index.
func (s *Store) EnterLevel(level int) {
	s.mu.Lock()
	s.snap.CurrentLevel = level
	s.mu.Unlock()
}

// NodeStarted marks a node as the one currently being processed.
func (s *Store) NodeStarted(ctx context.Context, node domain.Node, level int) {
	s.mu.Lock()
	s.snap.CurrentNodeID = node.ID
	s.snap.CurrentNodeName = node.Name
	runID := s.snap.RunID
	s.mu.Unlock()

	s.logger.Debug("node started", "run_id", runID, "node_id", node.ID, "level", level)
	if s.hooks.OnNodeStart != nil {
		s.hooks.OnNodeStart(ctx, &domain.NodeEvent{
			Timestamp: time.Now(), Type: domain.EventNodeStart,
			RunID: runID, NodeID: node.ID, NodeName: node.Name, Level: level,
		})
	}
}

// NodeCompleted appends the node to the completed set.
func (s *Store) NodeCompleted(ctx context.Context, node domain.Node, level int, out *domain.GenerationOutput) {
	s.mu.Lock()
	s.snap.Completed = append(s.snap.Completed, node.ID)
	runID := s.snap.RunID
	s.mu.Unlock()

	s.logger.Info("node completed", "run_id", runID, "node_id", node.ID, "level", level,
		"latency", out.Usage.Latency)
	if s.hooks.OnNodeComplete != nil {
		s.hooks.OnNodeComplete(ctx, &domain.NodeEvent{
			Timestamp: time.Now(), Type: domain.EventNodeComplete,
			RunID: runID, NodeID: node.ID, NodeName: node.Name, Level: level, Output: out,
		})
	}
}

// NodeFailed records a per-node failure. The run continues unless the
// executor decides the error was structural.
func (s *Store) NodeFailed(ctx context.Context, node domain.Node, level int, err error) {
	s.mu.Lock()
	s.snap.Failed = append(s.snap.Failed, domain.FailedNode{
		ID: node.ID, Name: node.Name, Error: err.Error(),
	})
	runID := s.snap.RunID
	s.mu.Unlock()

	s.logger.Warn("node failed", "run_id", runID, "node_id", node.ID, "level", level, "err", err)
	if s.hooks.OnNodeFailed != nil {
		s.hooks.OnNodeFailed(ctx, &domain.NodeEvent{
			Timestamp: time.Now(), Type: domain.EventNodeFailed,
			RunID: runID, NodeID: node.ID, NodeName: node.Name, Level: level, Error: err.Error(),
		})
	}
}

// SetSkipAllPreviews flips the preview toggle. Unlike the other mutators this
// may be called from any goroutine at any time; it takes effect on the next
// node dispatched.
func (s *Store) SetSkipAllPreviews(enabled bool) {
	s.mu.Lock()
	s.snap.SkipAllPreviews = enabled
	s.mu.Unlock()
}

// SkipAllPreviews returns the current preview toggle.
func (s *Store) SkipAllPreviews() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.SkipAllPreviews
}

// EndRun performs the terminal transition, clearing the transient cursor
// fields while preserving the per-node accounting for the final summary.
func (s *Store) EndRun(ctx context.Context, status domain.RunStatus, runErr error) {
	s.mu.Lock()
	s.snap.Status = status
	s.snap.CurrentNodeID = ""
	s.snap.CurrentNodeName = ""
	s.snap.StartedAt = time.Time{}
	if runErr != nil {
		s.snap.Error = runErr.Error()
	}
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.logger.Info("cascade ended", "run_id", snap.RunID, "status", status,
		"completed", snap.CompletedCount(), "failed", snap.FailedCount(), "skipped", snap.SkippedCount())
	s.emitRun(ctx, domain.EventRunEnd, snap, s.hooks.OnRunEnd)
}

func (s *Store) emitRun(ctx context.Context, typ domain.EventType, snap domain.RunSnapshot, hook func(context.Context, *domain.RunEvent)) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.RunEvent{Timestamp: time.Now(), Type: typ, RunID: snap.RunID, Snapshot: snap})
}

func (s *Store) emitSkipped(ctx context.Context, runID string, sk domain.SkippedNode) {
	if s.hooks.OnNodeSkipped == nil {
		return
	}
	s.hooks.OnNodeSkipped(ctx, &domain.NodeEvent{
		Timestamp: time.Now(), Type: domain.EventNodeSkipped,
		RunID: runID, NodeID: sk.ID, NodeName: sk.Name, Reason: sk.Reason,
	})
}

func copySnapshot(in domain.RunSnapshot) domain.RunSnapshot {
	out := in
	out.Completed = append([]domain.NodeID(nil), in.Completed...)
	out.Skipped = append([]domain.SkippedNode(nil), in.Skipped...)
	out.Failed = append([]domain.FailedNode(nil), in.Failed...)
	return out
}

package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oxygn-cloud-ai/cascade/internal/logging"
	"github.com/oxygn-cloud-ai/cascade/internal/runtime"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
	"github.com/oxygn-cloud-ai/cascade/pkg/ports"
)

// Engine is the high-level entry point for the Cascade library.
// It wraps the internal runtime and provides a simplified API for consumers:
// start a run, steer it with pause/resume/cancel, and observe it through
// snapshots and hooks.
type Engine struct {
	executor *runtime.Executor
	state    *runtime.Store

	hooks   domain.RunHooks
	results ports.ResultStore
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithHooks registers observability hooks. Multiple calls merge; every
// registered callback fires.
func WithHooks(hooks domain.RunHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithResultStore persists generation outputs as nodes complete. Without it
// outputs only flow through the OnNodeComplete hook.
func WithResultStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.results = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a Cascade Engine over a prompt tree provider and a
// generation client.
func New(provider ports.TreeProvider, generator ports.Generator, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("tree provider is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.state = runtime.NewStore(eng.hooks, eng.logger)

	execOpts := []runtime.ExecutorOption{runtime.WithLogger(eng.logger)}
	if eng.results != nil {
		execOpts = append(execOpts, runtime.WithResultStore(eng.results))
	}
	eng.executor = runtime.NewExecutor(provider, generator, eng.state, execOpts...)

	return eng, nil
}

// Start plans and launches a cascade from rootID. The call returns once the
// run is planned and dispatched; progress is observed through Snapshot, the
// registered hooks, and Done.
//
// Returns domain.ErrRunActive while a run is live and domain.ErrRootNotFound
// when the root does not resolve.
func (e *Engine) Start(ctx context.Context, rootID domain.NodeID) error {
	return e.executor.Start(ctx, rootID)
}

// Pause requests a pause at the next node boundary. The in-flight generation
// call, if any, runs to completion first. Idempotent.
func (e *Engine) Pause() { e.executor.Pause() }

// Resume clears a pause request and wakes the run. Idempotent.
func (e *Engine) Resume() { e.executor.Resume() }

// Cancel requests cancellation. The current node settles, no further nodes
// start, and the run terminates as Completed with whatever finished.
// Idempotent.
func (e *Engine) Cancel() { e.executor.Cancel() }

// SetSkipAllPreviews toggles preview suppression for all subsequent nodes of
// the current and future runs.
func (e *Engine) SetSkipAllPreviews(enabled bool) { e.executor.SetSkipAllPreviews(enabled) }

// Snapshot returns a consistent copy of the current run state.
func (e *Engine) Snapshot() domain.RunSnapshot { return e.state.Snapshot() }

// Status returns the current run status.
func (e *Engine) Status() domain.RunStatus { return e.state.Status() }

// Done returns a channel closed when the current run finishes. When no run
// is active the returned channel is already closed.
func (e *Engine) Done() <-chan struct{} { return e.executor.Done() }

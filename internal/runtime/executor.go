package runtime

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
	"github.com/oxygn-cloud-ai/cascade/pkg/ports"
)

// Executor drives a cascade run: it consumes the plan level by level,
// dispatches at most one generation call at a time, and integrates the
// latched pause/cancel flags at well-defined suspension points between
// nodes. An in-flight generation call is never preempted.
type Executor struct {
	provider  ports.TreeProvider
	generator ports.Generator
	results   ports.ResultStore // optional
	state     *Store
	logger    *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond // signaled on resume and cancel
	active bool
	pause  bool
	cancel bool
	runID  string
	done   chan struct{}
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithResultStore sets the persistence collaborator for generation outputs.
func WithResultStore(store ports.ResultStore) ExecutorOption {
	return func(x *Executor) { x.results = store }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(x *Executor) { x.logger = logger }
}

// NewExecutor creates an executor bound to a state store.
func NewExecutor(provider ports.TreeProvider, generator ports.Generator, state *Store, opts ...ExecutorOption) *Executor {
	x := &Executor{
		provider:  provider,
		generator: generator,
		state:     state,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:      closedChan(),
	}
	x.cond = sync.NewCond(&x.mu)
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Start plans and begins a cascade from rootID. It returns domain.ErrRunActive
// if another run is still live: concurrent cascades are rejected, not queued.
// Planning errors (including domain.ErrRootNotFound) are returned before any
// node is attempted; everything after that surfaces through the run state.
func (x *Executor) Start(ctx context.Context, rootID domain.NodeID) error {
	x.mu.Lock()
	if x.active {
		x.mu.Unlock()
		return domain.ErrRunActive
	}
	x.active = true
	x.pause = false
	x.cancel = false
	x.runID = newRunID()
	x.done = make(chan struct{})
	runID := x.runID
	done := x.done
	x.mu.Unlock()

	plan, err := PlanLevels(ctx, x.provider, rootID)
	if err != nil {
		x.mu.Lock()
		x.active = false
		x.mu.Unlock()
		close(done)
		return err
	}

	x.state.BeginRun(ctx, runID, plan)

	go x.run(ctx, runID, plan, done)
	return nil
}

// Pause requests a pause. It latches: the in-flight generation (if any) runs
// to completion and the status flips to Paused at the next suspension point.
// A no-op while already paused, cancelling, or idle.
func (x *Executor) Pause() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.active || x.pause || x.cancel {
		return
	}
	x.pause = true
}

// Resume clears a pause request. A no-op unless pause is latched.
func (x *Executor) Resume() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.active || !x.pause || x.cancel {
		return
	}
	x.pause = false
	x.cond.Broadcast()
}

// Cancel requests cancellation: allow the current node to settle, start no
// further ones. The status becomes Cancelling immediately and resolves to a
// terminal state once the in-flight call (if any) finishes. Idempotent.
func (x *Executor) Cancel() {
	x.mu.Lock()
	if !x.active || x.cancel {
		x.mu.Unlock()
		return
	}
	x.cancel = true
	runID := x.runID
	x.cond.Broadcast()
	x.mu.Unlock()

	// The status write is tagged with the run the latch check saw, so it
	// cannot land on a later run if this one finishes concurrently.
	x.state.SetStatus(context.Background(), runID, domain.StatusCancelling)
}

// SetSkipAllPreviews flips the run-wide preview toggle; it is read by the
// generation client on the next node dispatched.
func (x *Executor) SetSkipAllPreviews(enabled bool) {
	x.state.SetSkipAllPreviews(enabled)
}

// Done returns a channel closed when the current run finishes. When no run
// is active the returned channel is already closed.
func (x *Executor) Done() <-chan struct{} {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.done
}

// run is the control loop. It owns all run-state mutation from here on.
func (x *Executor) run(ctx context.Context, runID string, plan *Plan, done chan struct{}) {
	status := domain.StatusCompleted
	var runErr error

levels:
	for li, level := range plan.Levels {
		x.state.EnterLevel(li)
		for _, node := range level {
			if !x.awaitClearance(ctx, runID) {
				break levels
			}
			x.state.NodeStarted(ctx, node, li)

			out, err := x.generate(ctx, runID, node, li)
			if err != nil {
				x.state.NodeFailed(ctx, node, li, err)
				var genErr *domain.GenerationError
				if errors.As(err, &genErr) && genErr.Structural {
					status = domain.StatusFailed
					runErr = err
					break levels
				}
				continue
			}

			if x.results != nil {
				if err := x.results.SaveResult(ctx, runID, out); err != nil {
					x.state.NodeFailed(ctx, node, li, fmt.Errorf("persist result: %w", err))
					continue
				}
			}
			x.state.NodeCompleted(ctx, node, li, out)
		}
	}

	x.finish(ctx, status, runErr, done)
}

// awaitClearance is the suspension point between nodes: the only place where
// latched pause and cancel requests take effect. Returns false when the run
// must stop dispatching nodes.
func (x *Executor) awaitClearance(ctx context.Context, runID string) bool {
	x.mu.Lock()
	if x.cancel || ctx.Err() != nil {
		x.mu.Unlock()
		return false
	}
	if !x.pause {
		x.mu.Unlock()
		return true
	}
	x.mu.Unlock()

	// Publish Paused outside the control mutex so observers may issue
	// further control commands from their callbacks without deadlocking.
	x.state.SetStatus(ctx, runID, domain.StatusPaused)

	x.mu.Lock()
	for x.pause && !x.cancel {
		x.cond.Wait()
	}
	cancelled := x.cancel
	x.mu.Unlock()

	if cancelled {
		return false
	}
	x.state.SetStatus(ctx, runID, domain.StatusRunning)
	return true
}

// generate dispatches the single in-flight generation call for a node.
func (x *Executor) generate(ctx context.Context, runID string, node domain.Node, level int) (*domain.GenerationOutput, error) {
	gc := domain.GenerationContext{
		RunID:       runID,
		Level:       level,
		SkipPreview: x.state.SkipAllPreviews(),
	}

	start := time.Now()
	out, err := x.generator.Generate(ctx, node, gc)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.NewGenerationError(node.ID, errors.New("generator returned no output"))
	}
	if out.NodeID == "" {
		out.NodeID = node.ID
	}
	if out.Usage.Latency == 0 {
		out.Usage.Latency = time.Since(start)
	}
	return out, nil
}

func (x *Executor) finish(ctx context.Context, status domain.RunStatus, runErr error, done chan struct{}) {
	x.mu.Lock()
	cancelled := x.cancel
	x.mu.Unlock()

	// A user cancel is not an error: the run terminates Completed with a
	// partial completed set, unless a structural failure already decided
	// Failed for the same node.
	if cancelled && status != domain.StatusFailed {
		status = domain.StatusCompleted
	}
	if runErr == nil && ctx.Err() != nil {
		x.logger.Warn("host context cancelled mid-run", "err", ctx.Err())
	}

	// The terminal transition completes before run ownership is released:
	// a Start accepted after this point begins from a settled store, and
	// this goroutine performs no further writes that could land on it.
	x.state.EndRun(ctx, status, runErr)

	x.mu.Lock()
	x.active = false
	x.pause = false
	x.cancel = false
	x.mu.Unlock()
	close(done)
}

// newRunID creates a run ID in the format YYYYMMDDTHHmmss-xxxx.
func newRunID() string {
	ts := time.Now().Format("20060102T150405")
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s-%x", ts, suffix)
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygn-cloud-ai/cascade/internal/runtime"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

func testPlan() *runtime.Plan {
	return &runtime.Plan{
		RootID: "root",
		Levels: [][]domain.Node{
			{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		},
		Skipped:    []domain.SkippedNode{{ID: "x", Name: "X", Reason: domain.SkipReasonExcludedFlag}},
		TotalNodes: 2,
	}
}

func TestStore_BeginRun(t *testing.T) {
	var skipped []domain.NodeID
	var mu sync.Mutex
	store := runtime.NewStore(domain.RunHooks{
		OnNodeSkipped: func(_ context.Context, ev *domain.NodeEvent) {
			mu.Lock()
			skipped = append(skipped, ev.NodeID)
			mu.Unlock()
		},
	}, nil)

	store.BeginRun(context.Background(), "run-1", testPlan())

	snap := store.Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, domain.StatusRunning, snap.Status)
	assert.Equal(t, domain.NodeID("root"), snap.RootID)
	assert.Equal(t, 1, snap.TotalLevels)
	assert.Equal(t, 2, snap.TotalNodes)
	assert.False(t, snap.StartedAt.IsZero())
	assert.Equal(t, []domain.NodeID{"x"}, skipped)
}

func TestStore_BeginRunPreservesPreviewToggle(t *testing.T) {
	store := runtime.NewStore(domain.RunHooks{}, nil)
	store.SetSkipAllPreviews(true)

	store.BeginRun(context.Background(), "run-1", testPlan())

	assert.True(t, store.Snapshot().SkipAllPreviews)
}

func TestStore_SetStatusGuards(t *testing.T) {
	var changes []domain.RunStatus
	store := runtime.NewStore(domain.RunHooks{
		OnStatusChange: func(_ context.Context, ev *domain.RunEvent) {
			changes = append(changes, ev.Snapshot.Status)
		},
	}, nil)
	store.BeginRun(context.Background(), "run-1", testPlan())

	// Same status does not re-emit.
	store.SetStatus(context.Background(), "run-1", domain.StatusRunning)
	assert.Empty(t, changes)

	store.SetStatus(context.Background(), "run-1", domain.StatusPaused)
	assert.Equal(t, []domain.RunStatus{domain.StatusPaused}, changes)

	// Cancelling is one-way until EndRun.
	store.SetStatus(context.Background(), "run-1", domain.StatusCancelling)
	store.SetStatus(context.Background(), "run-1", domain.StatusRunning)
	store.SetStatus(context.Background(), "run-1", domain.StatusPaused)
	assert.Equal(t, domain.StatusCancelling, store.Status())

	store.EndRun(context.Background(), domain.StatusCompleted, nil)
	assert.Equal(t, domain.StatusCompleted, store.Status())

	// Terminal state is frozen.
	store.SetStatus(context.Background(), "run-1", domain.StatusRunning)
	assert.Equal(t, domain.StatusCompleted, store.Status())
}

func TestStore_SetStatusIgnoresStaleRun(t *testing.T) {
	var changes []domain.RunStatus
	store := runtime.NewStore(domain.RunHooks{
		OnStatusChange: func(_ context.Context, ev *domain.RunEvent) {
			changes = append(changes, ev.Snapshot.Status)
		},
	}, nil)
	store.BeginRun(context.Background(), "run-2", testPlan())

	// A command latched against a finished run must not touch its successor.
	store.SetStatus(context.Background(), "run-1", domain.StatusCancelling)

	assert.Equal(t, domain.StatusRunning, store.Status())
	assert.Empty(t, changes)

	store.SetStatus(context.Background(), "run-2", domain.StatusPaused)
	assert.Equal(t, []domain.RunStatus{domain.StatusPaused}, changes)
}

func TestStore_NodeAccounting(t *testing.T) {
	store := runtime.NewStore(domain.RunHooks{}, nil)
	store.BeginRun(context.Background(), "run-1", testPlan())

	a := domain.Node{ID: "a", Name: "A"}
	b := domain.Node{ID: "b", Name: "B"}

	store.NodeStarted(context.Background(), a, 0)
	snap := store.Snapshot()
	assert.Equal(t, domain.NodeID("a"), snap.CurrentNodeID)
	assert.Equal(t, "A", snap.CurrentNodeName)

	store.NodeCompleted(context.Background(), a, 0, &domain.GenerationOutput{NodeID: "a", Text: "ok"})
	store.NodeFailed(context.Background(), b, 0, errors.New("model unavailable"))

	snap = store.Snapshot()
	assert.Equal(t, []domain.NodeID{"a"}, snap.Completed)
	require.Len(t, snap.Failed, 1)
	assert.Equal(t, domain.NodeID("b"), snap.Failed[0].ID)
	assert.Equal(t, "model unavailable", snap.Failed[0].Error)
}

func TestStore_EndRunClearsCursor(t *testing.T) {
	store := runtime.NewStore(domain.RunHooks{}, nil)
	store.BeginRun(context.Background(), "run-1", testPlan())
	store.NodeStarted(context.Background(), domain.Node{ID: "a", Name: "A"}, 0)

	store.EndRun(context.Background(), domain.StatusFailed, errors.New("boom"))

	snap := store.Snapshot()
	assert.Equal(t, domain.StatusFailed, snap.Status)
	assert.Empty(t, snap.CurrentNodeID)
	assert.Empty(t, snap.CurrentNodeName)
	assert.True(t, snap.StartedAt.IsZero())
	assert.Equal(t, "boom", snap.Error)
	// Accounting survives for the final summary.
	assert.Equal(t, 1, snap.SkippedCount())
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := runtime.NewStore(domain.RunHooks{}, nil)
	store.BeginRun(context.Background(), "run-1", testPlan())
	store.NodeCompleted(context.Background(), domain.Node{ID: "a"}, 0, &domain.GenerationOutput{NodeID: "a"})

	snap := store.Snapshot()
	snap.Completed[0] = "tampered"
	snap.Skipped[0].Reason = "tampered"

	fresh := store.Snapshot()
	assert.Equal(t, domain.NodeID("a"), fresh.Completed[0])
	assert.Equal(t, domain.SkipReasonExcludedFlag, fresh.Skipped[0].Reason)
}

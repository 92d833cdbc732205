package ports

import (
	"context"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// ResultStore persists generation outputs as the cascade produces them.
// The engine writes each successful result through this port before marking
// the node completed; it never reads results back itself (a run is ephemeral
// and in-memory), so the store only needs to be durable enough for the
// surrounding application.
type ResultStore interface {
	// SaveResult persists the output of one node within a run.
	SaveResult(ctx context.Context, runID string, out *domain.GenerationOutput) error

	// LoadResult retrieves a previously saved output.
	// Returns domain.ErrResultNotFound if no result exists for the pair.
	LoadResult(ctx context.Context, runID string, nodeID domain.NodeID) (*domain.GenerationOutput, error)

	// DeleteRun removes all results recorded for a run.
	DeleteRun(ctx context.Context, runID string) error

	// ListRuns returns the IDs of runs with at least one stored result.
	ListRuns(ctx context.Context) ([]string, error)
}

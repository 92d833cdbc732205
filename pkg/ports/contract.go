package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// RunResultStoreContract runs a suite of tests verifying that a ResultStore
// implementation adheres to the interface contract. Adapter packages call
// this from their own tests.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		out := &domain.GenerationOutput{
			NodeID: "node-a",
			Text:   "generated text",
			Usage:  domain.GenerationUsage{PromptTokens: 12, CompletionTokens: 34, Latency: 250 * time.Millisecond},
		}
		require.NoError(t, store.SaveResult(ctx, runID, out))

		loaded, err := store.LoadResult(ctx, runID, "node-a")
		require.NoError(t, err)
		assert.Equal(t, out.NodeID, loaded.NodeID)
		assert.Equal(t, out.Text, loaded.Text)
		assert.Equal(t, out.Usage.PromptTokens, loaded.Usage.PromptTokens)
	})

	t.Run("Overwrite Keeps Latest", func(t *testing.T) {
		first := &domain.GenerationOutput{NodeID: "node-b", Text: "v1"}
		second := &domain.GenerationOutput{NodeID: "node-b", Text: "v2"}
		require.NoError(t, store.SaveResult(ctx, runID, first))
		require.NoError(t, store.SaveResult(ctx, runID, second))

		loaded, err := store.LoadResult(ctx, runID, "node-b")
		require.NoError(t, err)
		assert.Equal(t, "v2", loaded.Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.LoadResult(ctx, runID, "missing-node")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)

		_, err = store.LoadResult(ctx, "missing-run", "node-a")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("List Runs", func(t *testing.T) {
		other := runID + "-other"
		require.NoError(t, store.SaveResult(ctx, other, &domain.GenerationOutput{NodeID: "n", Text: "x"}))
		defer func() { _ = store.DeleteRun(ctx, other) }()

		runs, err := store.ListRuns(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, runID)
		assert.Contains(t, runs, other)
	})

	t.Run("Delete Run", func(t *testing.T) {
		require.NoError(t, store.DeleteRun(ctx, runID))

		_, err := store.LoadResult(ctx, runID, "node-a")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)

		runs, err := store.ListRuns(ctx)
		require.NoError(t, err)
		assert.NotContains(t, runs, runID)
	})
}

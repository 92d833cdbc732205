package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxygn-cloud-ai/cascade/internal/tui"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

func TestBuildReport(t *testing.T) {
	snap := domain.RunSnapshot{
		RunID:      "20260827T101500-abcd",
		Status:     domain.StatusCompleted,
		TotalNodes: 3,
		Completed:  []domain.NodeID{"intro", "body"},
		Failed:     []domain.FailedNode{{ID: "outro", Name: "Outro", Error: "model unavailable"}},
		Skipped:    []domain.SkippedNode{{ID: "notes", Name: "Notes", Reason: domain.SkipReasonExcludedFlag}},
	}

	report := tui.BuildReport(snap)

	assert.Contains(t, report, "20260827T101500-abcd")
	assert.Contains(t, report, "2 completed, 1 failed, 1 skipped (of 3 planned)")
	assert.Contains(t, report, "- intro")
	assert.Contains(t, report, "Outro (outro): model unavailable")
	assert.Contains(t, report, "Notes (notes): excluded_flag")
	assert.NotContains(t, report, "## Error")
}

func TestBuildReport_Error(t *testing.T) {
	snap := domain.RunSnapshot{
		RunID:  "r1",
		Status: domain.StatusFailed,
		Error:  "auth expired",
	}

	report := tui.BuildReport(snap)
	assert.Contains(t, report, "## Error")
	assert.Contains(t, report, "auth expired")
}

package tui

import (
	"fmt"
	"strings"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// BuildReport renders a run snapshot as a markdown summary for the CLI.
func BuildReport(snap domain.RunSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cascade Run %s\n\n", snap.RunID)
	fmt.Fprintf(&b, "**Status:** %s\n\n", snap.Status)
	fmt.Fprintf(&b, "**Nodes:** %d completed, %d failed, %d skipped (of %d planned)\n\n",
		snap.CompletedCount(), snap.FailedCount(), snap.SkippedCount(), snap.TotalNodes)

	if len(snap.Completed) > 0 {
		b.WriteString("## Completed\n\n")
		for _, id := range snap.Completed {
			fmt.Fprintf(&b, "- %s\n", id)
		}
		b.WriteString("\n")
	}

	if len(snap.Failed) > 0 {
		b.WriteString("## Failed\n\n")
		for _, f := range snap.Failed {
			fmt.Fprintf(&b, "- %s (%s): %s\n", f.Name, f.ID, f.Error)
		}
		b.WriteString("\n")
	}

	if len(snap.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, s := range snap.Skipped {
			fmt.Fprintf(&b, "- %s (%s): %s\n", s.Name, s.ID, s.Reason)
		}
		b.WriteString("\n")
	}

	if snap.Error != "" {
		fmt.Fprintf(&b, "## Error\n\n%s\n", snap.Error)
	}

	return b.String()
}

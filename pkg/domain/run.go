package domain

import "time"

// RunStatus defines the lifecycle phase of a cascade run.
type RunStatus string

const (
	StatusIdle       RunStatus = "idle"       // No run in progress
	StatusRunning    RunStatus = "running"    // Nodes are being processed
	StatusPaused     RunStatus = "paused"     // Latched pause took effect at a suspension point
	StatusCancelling RunStatus = "cancelling" // Cancel latched, waiting for the in-flight node to settle
	StatusCompleted  RunStatus = "completed"  // All levels exhausted, or cancelled after partial progress
	StatusFailed     RunStatus = "failed"     // Structural error aborted the run
)

// Terminal reports whether the status ends a run.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Active reports whether a run currently owns the engine.
func (s RunStatus) Active() bool {
	return s == StatusRunning || s == StatusPaused || s == StatusCancelling
}

// Skip reasons recorded during planning.
const (
	SkipReasonExcludedFlag = "excluded_flag"
	SkipReasonSoftDeleted  = "soft_deleted"
)

// SkippedNode records a node excluded by eligibility rules during planning.
type SkippedNode struct {
	ID     NodeID `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// FailedNode records a node whose generation call failed. Failed nodes are a
// third bucket, distinct from both completed and skipped: the run continues
// past them unless the failure was structural.
type FailedNode struct {
	ID    NodeID `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// RunSnapshot is the read-only view of the live run state handed to
// observers. Slices are copies; mutating a snapshot never affects the run.
type RunSnapshot struct {
	RunID  string    `json:"run_id"`
	Status RunStatus `json:"status"`
	RootID NodeID    `json:"root_id,omitempty"`

	CurrentLevel int `json:"current_level"`
	TotalLevels  int `json:"total_levels"`

	CurrentNodeID   NodeID `json:"current_node_id,omitempty"`
	CurrentNodeName string `json:"current_node_name,omitempty"`

	TotalNodes int           `json:"total_nodes"`
	Completed  []NodeID      `json:"completed"`
	Skipped    []SkippedNode `json:"skipped"`
	Failed     []FailedNode  `json:"failed"`

	StartedAt time.Time `json:"started_at,omitempty"`

	SkipAllPreviews bool `json:"skip_all_previews"`

	// Error holds the cause of a terminal failure, empty otherwise.
	Error string `json:"error,omitempty"`
}

// CompletedCount returns the number of successfully finished nodes.
func (s RunSnapshot) CompletedCount() int { return len(s.Completed) }

// SkippedCount returns the number of nodes excluded during planning.
func (s RunSnapshot) SkippedCount() int { return len(s.Skipped) }

// FailedCount returns the number of nodes that failed generation.
func (s RunSnapshot) FailedCount() int { return len(s.Failed) }

package domain

import (
	"context"
	"time"
)

// EventType defines the category of a run lifecycle event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventStatusChange EventType = "status_change"
	EventNodeStart    EventType = "node_start"
	EventNodeComplete EventType = "node_complete"
	EventNodeFailed   EventType = "node_failed"
	EventNodeSkipped  EventType = "node_skipped"
	EventRunEnd       EventType = "run_end"
)

// RunEvent carries a point-in-time view of the run for run-level callbacks.
type RunEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	Snapshot  RunSnapshot `json:"snapshot"`
}

// NodeEvent describes a single node's progress through the cascade.
type NodeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	NodeID    NodeID    `json:"node_id"`
	NodeName  string    `json:"node_name"`
	Level     int       `json:"level"`

	// Output is set on node_complete events.
	Output *GenerationOutput `json:"output,omitempty"`
	// Error is set on node_failed events; Reason on node_skipped events.
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// RunHooks defines callbacks for cascade observability. All fields are
// optional; nil hooks are skipped. Callbacks run on the executor's control
// loop between state transitions and must not block.
type RunHooks struct {
	OnRunStart     func(context.Context, *RunEvent)
	OnStatusChange func(context.Context, *RunEvent)
	OnNodeStart    func(context.Context, *NodeEvent)
	OnNodeComplete func(context.Context, *NodeEvent)
	OnNodeFailed   func(context.Context, *NodeEvent)
	OnNodeSkipped  func(context.Context, *NodeEvent)
	OnRunEnd       func(context.Context, *RunEvent)
}

// Merge combines two hook sets, invoking both callbacks where both are set.
func (h RunHooks) Merge(other RunHooks) RunHooks {
	return RunHooks{
		OnRunStart:     mergeRun(h.OnRunStart, other.OnRunStart),
		OnStatusChange: mergeRun(h.OnStatusChange, other.OnStatusChange),
		OnNodeStart:    mergeNode(h.OnNodeStart, other.OnNodeStart),
		OnNodeComplete: mergeNode(h.OnNodeComplete, other.OnNodeComplete),
		OnNodeFailed:   mergeNode(h.OnNodeFailed, other.OnNodeFailed),
		OnNodeSkipped:  mergeNode(h.OnNodeSkipped, other.OnNodeSkipped),
		OnRunEnd:       mergeRun(h.OnRunEnd, other.OnRunEnd),
	}
}

func mergeRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func mergeNode(a, b func(context.Context, *NodeEvent)) func(context.Context, *NodeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

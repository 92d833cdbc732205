package domain

import (
	"fmt"
	"time"
)

// GenerationContext carries the per-call inputs the engine resolves before
// dispatching a generation. Prompt content and variable values are the
// generation client's concern; the engine only threads run coordinates and
// the preview toggle through.
type GenerationContext struct {
	RunID string `json:"run_id"`
	Level int    `json:"level"`

	// SkipPreview suppresses the client's per-node confirmation step. It is
	// sampled at dispatch time, so flipping the run-wide toggle affects the
	// next node processed.
	SkipPreview bool `json:"skip_preview"`
}

// GenerationUsage holds optional usage metadata reported by the client.
type GenerationUsage struct {
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Latency          time.Duration `json:"latency,omitempty"`
}

// GenerationOutput is the result of a single generation call.
type GenerationOutput struct {
	NodeID NodeID          `json:"node_id"`
	Text   string          `json:"text"`
	Usage  GenerationUsage `json:"usage,omitempty"`
}

// GenerationError describes a failed generation call.
//
// Structural errors (auth, configuration, connectivity) abort the whole run;
// non-structural errors fail only the node and the cascade continues with
// the next sibling.
type GenerationError struct {
	NodeID     NodeID
	Structural bool
	Err        error
}

func (e *GenerationError) Error() string {
	kind := "generation"
	if e.Structural {
		kind = "structural"
	}
	return fmt.Sprintf("%s error on node %s: %v", kind, e.NodeID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps a per-call failure for the given node.
func NewGenerationError(nodeID NodeID, err error) *GenerationError {
	return &GenerationError{NodeID: nodeID, Err: err}
}

// NewStructuralError wraps a fatal auth/config/connectivity failure.
func NewStructuralError(nodeID NodeID, err error) *GenerationError {
	return &GenerationError{NodeID: nodeID, Structural: true, Err: err}
}

package domain

// NodeID uniquely identifies a prompt node within the tree.
type NodeID string

// Node is the narrow view of a prompt node that the cascade engine needs.
// All other prompt fields (content, editor state, icons, variables) stay in
// the tree provider's domain and never cross the engine boundary.
type Node struct {
	ID   NodeID `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// IsAssistant marks AI-backed conversational nodes.
	IsAssistant bool `json:"is_assistant,omitempty" yaml:"is_assistant,omitempty"`

	// ExcludeFromCascade excludes this node from execution. Exclusion is
	// per-node: the node's descendants are still traversed and may
	// themselves be eligible.
	ExcludeFromCascade bool `json:"exclude_from_cascade,omitempty" yaml:"exclude_from_cascade,omitempty"`

	// Deleted marks soft-deleted nodes. A deleted node is neither executed
	// nor traversed, so its whole sub-tree is unreachable.
	Deleted bool `json:"deleted,omitempty" yaml:"deleted,omitempty"`

	// Position is the provider's stable child-ordering key (typically a
	// lexicographic position string). Siblings execute in this order.
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
}

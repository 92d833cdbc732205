package ports

import (
	"context"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// TreeProvider defines how the engine reads the prompt hierarchy.
// This keeps the surrounding CRUD/persistence layer decoupled: the engine
// only ever sees the narrow domain.Node view.
type TreeProvider interface {
	// GetNode resolves a node by ID.
	// Returns domain.ErrNodeNotFound if the ID is unknown.
	GetNode(ctx context.Context, id domain.NodeID) (domain.Node, error)

	// ChildrenOf returns the direct children of a node in the provider's
	// stable display order. A leaf returns an empty slice, not an error.
	ChildrenOf(ctx context.Context, id domain.NodeID) ([]domain.Node, error)
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Provider implements ports.TreeProvider in memory.
// Safe for concurrent use. Child order is insertion order unless nodes carry
// an explicit Position key, in which case AddChild keeps siblings sorted.
type Provider struct {
	mu       sync.RWMutex
	nodes    map[domain.NodeID]domain.Node
	children map[domain.NodeID][]domain.NodeID
}

// NewProvider creates an empty in-memory tree.
func NewProvider() *Provider {
	return &Provider{
		nodes:    make(map[domain.NodeID]domain.Node),
		children: make(map[domain.NodeID][]domain.NodeID),
	}
}

// AddNode inserts or replaces a node without attaching it to a parent.
func (p *Provider) AddNode(node domain.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes[node.ID] = node
}

// AddChild inserts or replaces a node and appends it to the parent's child
// list. Returns an error when the parent is unknown.
func (p *Provider) AddChild(parent domain.NodeID, node domain.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.nodes[parent]; !ok {
		return fmt.Errorf("add child %s: parent %s: %w", node.ID, parent, domain.ErrNodeNotFound)
	}
	if _, exists := p.nodes[node.ID]; !exists {
		p.children[parent] = append(p.children[parent], node.ID)
	}
	p.nodes[node.ID] = node
	p.sortChildrenLocked(parent)
	return nil
}

// GetNode implements ports.TreeProvider.
func (p *Provider) GetNode(ctx context.Context, id domain.NodeID) (domain.Node, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	node, ok := p.nodes[id]
	if !ok {
		return domain.Node{}, fmt.Errorf("get node %s: %w", id, domain.ErrNodeNotFound)
	}
	return node, nil
}

// ChildrenOf implements ports.TreeProvider.
func (p *Provider) ChildrenOf(ctx context.Context, id domain.NodeID) ([]domain.Node, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.nodes[id]; !ok {
		return nil, fmt.Errorf("children of %s: %w", id, domain.ErrNodeNotFound)
	}

	ids := p.children[id]
	out := make([]domain.Node, 0, len(ids))
	for _, childID := range ids {
		out = append(out, p.nodes[childID])
	}
	return out, nil
}

// sortChildrenLocked keeps siblings ordered by Position when every sibling
// carries one; mixed or absent positions keep insertion order, matching how
// the surrounding application assigns lexicographic position keys.
func (p *Provider) sortChildrenLocked(parent domain.NodeID) {
	ids := p.children[parent]
	for _, id := range ids {
		if p.nodes[id].Position == "" {
			return
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && p.nodes[ids[j]].Position < p.nodes[ids[j-1]].Position; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// Package stub provides a scripted Generator for demos and tests. Each node
// can be given a canned response, an artificial delay, or an injected error,
// so cascade behavior can be exercised without a real model behind it.
package stub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Generator implements ports.Generator with scripted per-node behavior.
// Nodes without a script fall back to a deterministic placeholder response.
type Generator struct {
	mu      sync.Mutex
	scripts map[domain.NodeID]Script
	delay   time.Duration
	calls   []domain.NodeID
}

// Script describes how the generator answers one node.
type Script struct {
	// Text is the canned response. Empty means the default placeholder.
	Text string
	// Delay is added on top of the generator-wide delay.
	Delay time.Duration
	// Err fails the node. Wrapped as a non-structural generation error
	// unless Structural is set.
	Err error
	// Structural marks Err as an engine-level failure that aborts the run.
	Structural bool
	// Gate, when non-nil, blocks the call until the channel is closed or
	// the context is cancelled. Tests use it to hold a node in flight.
	Gate <-chan struct{}
}

// Option configures a Generator.
type Option func(*Generator)

// WithDelay sets a base delay applied to every generation call.
func WithDelay(d time.Duration) Option {
	return func(g *Generator) { g.delay = d }
}

// WithScript registers scripted behavior for one node.
func WithScript(id domain.NodeID, s Script) Option {
	return func(g *Generator) { g.scripts[id] = s }
}

// New creates a scripted generator.
func New(opts ...Option) *Generator {
	g := &Generator{scripts: make(map[domain.NodeID]Script)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements ports.Generator.
func (g *Generator) Generate(ctx context.Context, node domain.Node, gc domain.GenerationContext) (*domain.GenerationOutput, error) {
	g.mu.Lock()
	script := g.scripts[node.ID]
	delay := g.delay + script.Delay
	g.calls = append(g.calls, node.ID)
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if script.Gate != nil {
		select {
		case <-script.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if script.Err != nil {
		if script.Structural {
			return nil, domain.NewStructuralError(node.ID, script.Err)
		}
		return nil, domain.NewGenerationError(node.ID, script.Err)
	}

	text := script.Text
	if text == "" {
		text = fmt.Sprintf("generated response for %s (level %d)", node.ID, gc.Level)
	}

	return &domain.GenerationOutput{
		NodeID: node.ID,
		Text:   text,
		Usage: domain.GenerationUsage{
			PromptTokens:     len(node.Name),
			CompletionTokens: len(text),
		},
	}, nil
}

// Calls returns the node IDs generated so far, in dispatch order.
func (g *Generator) Calls() []domain.NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.NodeID, len(g.calls))
	copy(out, g.calls)
	return out
}

package ports

import (
	"context"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Generator is the external collaborator performing the actual AI call for a
// node. The engine guarantees at most one in-flight Generate call per run
// and never preempts one: pause and cancel wait for the call to settle.
//
// Implementations distinguish recoverable per-call failures from fatal
// auth/config failures by returning *domain.GenerationError with the
// Structural flag set accordingly. A plain error is treated as per-call.
type Generator interface {
	Generate(ctx context.Context, node domain.Node, gc domain.GenerationContext) (*domain.GenerationOutput, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, node domain.Node, gc domain.GenerationContext) (*domain.GenerationOutput, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, node domain.Node, gc domain.GenerationContext) (*domain.GenerationOutput, error) {
	return f(ctx, node, gc)
}

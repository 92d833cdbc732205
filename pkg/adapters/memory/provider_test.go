package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/memory"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

func TestProvider_GetNode(t *testing.T) {
	p := memory.NewProvider()
	p.AddNode(domain.Node{ID: "root", Name: "Root"})

	node, err := p.GetNode(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, "Root", node.Name)

	_, err = p.GetNode(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestProvider_ChildrenOf(t *testing.T) {
	p := memory.NewProvider()
	p.AddNode(domain.Node{ID: "root"})
	require.NoError(t, p.AddChild("root", domain.Node{ID: "a"}))
	require.NoError(t, p.AddChild("root", domain.Node{ID: "b"}))

	children, err := p.ChildrenOf(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, domain.NodeID("a"), children[0].ID)
	assert.Equal(t, domain.NodeID("b"), children[1].ID)

	// Known leaf yields an empty slice, not an error.
	leaves, err := p.ChildrenOf(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, leaves)

	_, err = p.ChildrenOf(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestProvider_AddChildUnknownParent(t *testing.T) {
	p := memory.NewProvider()
	err := p.AddChild("missing", domain.Node{ID: "a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNodeNotFound))
}

func TestProvider_PositionOrdering(t *testing.T) {
	p := memory.NewProvider()
	p.AddNode(domain.Node{ID: "root"})
	require.NoError(t, p.AddChild("root", domain.Node{ID: "c", Position: "a2"}))
	require.NoError(t, p.AddChild("root", domain.Node{ID: "a", Position: "a0"}))
	require.NoError(t, p.AddChild("root", domain.Node{ID: "b", Position: "a1"}))

	children, err := p.ChildrenOf(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, domain.NodeID("a"), children[0].ID)
	assert.Equal(t, domain.NodeID("b"), children[1].ID)
	assert.Equal(t, domain.NodeID("c"), children[2].ID)
}

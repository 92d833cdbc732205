package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygn-cloud-ai/cascade/internal/testutils"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/file"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

const sampleTree = `
id: root
name: My Project
children:
  - id: intro
    is_assistant: true
  - id: body
    name: Body
    children:
      - id: detail
        exclude_from_cascade: true
      - id: old
        deleted: true
`

func TestParse(t *testing.T) {
	provider, rootID, err := file.Parse([]byte(sampleTree))
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID("root"), rootID)

	root, err := provider.GetNode(context.Background(), rootID)
	require.NoError(t, err)
	assert.Equal(t, "My Project", root.Name)

	children, err := provider.ChildrenOf(context.Background(), rootID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	// Name falls back to the id when absent.
	assert.Equal(t, "intro", children[0].Name)
	assert.True(t, children[0].IsAssistant)

	grandchildren, err := provider.ChildrenOf(context.Background(), "body")
	require.NoError(t, err)
	require.Len(t, grandchildren, 2)
	assert.True(t, grandchildren[0].ExcludeFromCascade)
	assert.True(t, grandchildren[1].Deleted)
}

func TestParse_Errors(t *testing.T) {
	_, _, err := file.Parse([]byte("{{not yaml"))
	assert.Error(t, err)

	_, _, err = file.Parse([]byte(""))
	assert.Error(t, err)

	_, _, err = file.Parse([]byte("name: no id here"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing an id")

	_, _, err = file.Parse([]byte("id: root\nchildren:\n  - name: nameless\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing an id")

	// Unknown keys are rejected so typos do not silently drop flags.
	_, _, err = file.Parse([]byte("id: root\nexclud_from_cascade: true\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := testutils.WriteTreeFile(t, sampleTree)

	provider, rootID, err := file.Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID("root"), rootID)

	_, err = provider.GetNode(context.Background(), "detail")
	assert.NoError(t, err)

	_, _, err = file.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

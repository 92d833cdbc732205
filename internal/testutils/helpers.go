package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTreeFile writes a YAML tree document into a temp directory and returns
// its path. It fails the test immediately on error.
func WriteTreeFile(t *testing.T, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644), "Failed to write tree fixture")

	return path
}

package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/xmltree"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/require"
)

// ParseXML parses doc with the default XML parser.
// It fails the test immediately on error.
func ParseXML(t *testing.T, doc string) *domain.Node {
	t.Helper()
	root, err := xmltree.New().Parse([]byte(doc))
	require.NoError(t, err, "Failed to parse test document")
	return root
}

// WriteFile writes content to name below dir, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "Failed to create test directory")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write test file")
	return path
}

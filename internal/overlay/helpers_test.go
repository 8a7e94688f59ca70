package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func newRegistry(t *testing.T, pkgs ...Package) *Registry {
	t.Helper()
	reg, err := NewRegistry(pkgs...)
	require.NoError(t, err)
	return reg
}

func pkg(id, src, dir string) Package {
	return Package{ID: id, SourceDir: src, Directory: dir, Enabled: true}
}

func serialized(t *testing.T, fs *FileSet, p string) string {
	t.Helper()
	data, ok := fs.Data(p)
	require.True(t, ok, "missing %s", p)
	return string(data)
}

package manifest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

func writeArchive(t *testing.T, files map[string]string, order []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mod-1.0-py3-none-any.whl")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func TestVerify_OK(t *testing.T) {
	var m Manifest
	m.Add("mod/docs/a.txt", []byte("hello"))
	files := map[string]string{
		"mod-1.0.dist-info/METADATA": "Name: mod\n",
		"mod/docs/a.txt":             "hello",
		"mod-1.0.dist-info/RECORD":   string(m.Bytes()),
	}
	p := writeArchive(t, files, []string{"mod-1.0.dist-info/METADATA", "mod/docs/a.txt", "mod-1.0.dist-info/RECORD"})

	report, err := Verify(p)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Checked)
	assert.NoError(t, report.Err())
}

func TestVerify_Problems(t *testing.T) {
	var m Manifest
	m.Add("mod/docs/a.txt", []byte("hello"))
	m.Add("mod/docs/gone.txt", []byte("x"))
	m.Add("mod/docs/b.txt", []byte("abc"))
	files := map[string]string{
		"mod/docs/a.txt":           "jello",
		"mod/docs/b.txt":           "abcd",
		"mod/docs/extra.txt":       "?",
		"mod-1.0.dist-info/RECORD": string(m.Bytes()),
	}
	p := writeArchive(t, files, []string{"mod/docs/a.txt", "mod/docs/b.txt", "mod/docs/extra.txt", "mod-1.0.dist-info/RECORD"})

	report, err := Verify(p)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []Problem{
		{Path: "mod/docs/a.txt", Kind: ProblemDigest},
		{Path: "mod/docs/gone.txt", Kind: ProblemMissing},
		{Path: "mod/docs/b.txt", Kind: ProblemSize},
		{Path: "mod/docs/extra.txt", Kind: ProblemUnrecorded},
	}, report.Problems)
	assert.True(t, errors.IsCategory(report.Err(), errors.CategoryValidation))
}

func TestVerify_MissingManifest(t *testing.T) {
	p := writeArchive(t, map[string]string{"mod/a.txt": "a"}, []string{"mod/a.txt"})
	_, err := Verify(p)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestVerify_NotAnArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.whl")
	require.NoError(t, os.WriteFile(p, []byte("nope"), 0o600))
	_, err := Verify(p)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryIO))
}

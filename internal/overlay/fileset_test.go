package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/partialdocs/internal/document"
)

func TestFileSet_Basics(t *testing.T) {
	fs := NewFileSet()
	fs.Put(&Entry{Path: `b\x.png`, Kind: KindMedia, Data: []byte("img"), Origin: "b"})
	fs.Put(&Entry{Path: "/a/index.md", Kind: KindDocument, Doc: document.New("# A\n"), Origin: "a"})
	fs.Put(&Entry{Path: "host.md", Kind: KindDocument, Doc: document.New("host\n")})

	assert.Equal(t, 3, fs.Len())
	assert.Equal(t, []string{"a/index.md", "b/x.png", "host.md"}, fs.Paths())
	assert.True(t, fs.Has("b/x.png"))
	assert.True(t, fs.Has("./a/index.md"))

	origin, ok := fs.OriginOf("a/index.md")
	require.True(t, ok)
	assert.Equal(t, "a", origin)
	_, ok = fs.OriginOf("host.md")
	assert.False(t, ok)

	entries := fs.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a/index.md", entries[0].Path)

	data, ok := fs.Data("b/x.png")
	require.True(t, ok)
	assert.Equal(t, "img", string(data))

	assert.True(t, fs.Remove("b/x.png"))
	assert.False(t, fs.Remove("b/x.png"))
	assert.Equal(t, 2, fs.Len())
}

func TestFileSet_WriteTo(t *testing.T) {
	fs := NewFileSet()
	doc := document.New("# A\n")
	document.StampProvenance(doc, "a")
	fs.Put(&Entry{Path: "pkg-a/index.md", Kind: KindDocument, Doc: doc, Origin: "a"})
	fs.Put(&Entry{Path: "pkg-a/img/x.png", Kind: KindMedia, Data: []byte{1, 2, 3}, Origin: "a"})

	out := t.TempDir()
	require.NoError(t, fs.WriteTo(out))

	data, err := os.ReadFile(filepath.Join(out, "pkg-a", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\ndocs_package: a\npartial: true\n---\n# A\n", string(data))

	data, err = os.ReadFile(filepath.Join(out, "pkg-a", "img", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestFileSet_Diff(t *testing.T) {
	prev := NewFileSet()
	prev.Put(&Entry{Path: "same.md", Kind: KindDocument, Doc: document.New("same")})
	prev.Put(&Entry{Path: "changed.md", Kind: KindDocument, Doc: document.New("old")})
	prev.Put(&Entry{Path: "gone.png", Kind: KindMedia, Data: []byte("x")})

	next := NewFileSet()
	next.Put(&Entry{Path: "same.md", Kind: KindDocument, Doc: document.New("same")})
	next.Put(&Entry{Path: "changed.md", Kind: KindDocument, Doc: document.New("new")})
	next.Put(&Entry{Path: "new.png", Kind: KindMedia, Data: []byte("y")})

	c, err := next.Diff(prev)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.png"}, c.Added)
	assert.Equal(t, []string{"gone.png"}, c.Removed)
	assert.Equal(t, []string{"changed.md"}, c.Modified)
	assert.False(t, c.Empty())

	c, err = next.Diff(next)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	c, err = next.Diff(nil)
	require.NoError(t, err)
	assert.Len(t, c.Added, 3)
}

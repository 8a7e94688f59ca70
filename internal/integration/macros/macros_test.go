package macros

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/overlay"
)

func newMacros(t *testing.T) *Integration {
	t.Helper()
	reg, err := overlay.NewRegistry(
		overlay.Package{ID: "a", SourceDir: "a", Directory: "pkg-a"},
		overlay.Package{ID: "root", SourceDir: "r"},
	)
	require.NoError(t, err)
	return New(reg)
}

func TestPackageLink(t *testing.T) {
	m := newMacros(t)
	tests := []struct {
		value, id, want string
	}{
		{"guide/setup.md", "a", "/pkg-a/guide/setup.md"},
		{"guide/", "a", "/pkg-a/guide/"},
		{"./x/../y.md", "a", "/pkg-a/y.md"},
		{"index.md", "root", "/index.md"},
		{"", "root", "/"},
	}
	for _, tt := range tests {
		got, err := m.PackageLink(tt.value, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.value)
	}

	_, err := m.PackageLink("x.md", "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestRender(t *testing.T) {
	m := newMacros(t)
	doc, err := document.Parse([]byte("---\nrender_macros: true\ntitle: Home\n---\n# {{ .page.title }}\nSee [setup]({{ \"guide/setup.md\" | package_link \"a\" }}).\n"))
	require.NoError(t, err)
	require.True(t, Enabled(doc))

	require.NoError(t, m.Render("index.md", doc))
	assert.Equal(t, "# Home\nSee [setup](/pkg-a/guide/setup.md).\n", doc.Content)
}

func TestRender_UnknownPackage(t *testing.T) {
	m := newMacros(t)
	doc := document.New(`{{ "x.md" | package_link "nope" }}`)
	err := m.Render("p.md", doc)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestRender_Malformed(t *testing.T) {
	m := newMacros(t)
	err := m.Render("p.md", document.New("{{ .page.title "))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryParse))
}

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(nil))
	assert.False(t, Enabled(document.New("x")))
}

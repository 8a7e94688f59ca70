package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/partialdocs/internal/config"
	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/testutil"
)

type fixture struct {
	root, docs, out, srcA string
	cfg                   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root: root,
		docs: filepath.Join(root, "docs"),
		out:  filepath.Join(root, "site"),
		srcA: filepath.Join(root, "a"),
	}
	testutil.WriteFile(t, filepath.Join(f.docs, "index.md"), "# Host\n")
	testutil.WriteFile(t, filepath.Join(f.srcA, "index.md"), "# Package A\n")
	testutil.WriteFile(t, filepath.Join(f.srcA, "guide.md"), "---\nredirects:\n  - old.md\n---\n# Guide\n\nSee [home](pkg://a/index.md).\n")
	testutil.WriteFile(t, filepath.Join(f.srcA, "blog", "posts", "hello.md"), "# Hello\n")
	testutil.WriteFile(t, filepath.Join(f.root, "words.txt"), "host\npackage\nguide\nsee\nhome\nhello\n")

	f.cfg = &config.Config{
		Version: config.Version,
		Site:    config.SiteConfig{DocsDir: f.docs, Output: f.out},
		Packages: []config.PackageConfig{{
			ID:              "a",
			Source:          f.srcA,
			Directory:       "pkg-a",
			Title:           "A",
			EditURLTemplate: "https://github.com/org/a/edit/main/docs/{path}",
		}},
		Blog:       config.BlogConfig{Enabled: true},
		Redirects:  config.ToggleConfig{Enabled: true},
		Macros:     config.ToggleConfig{Enabled: true},
		Spellcheck: config.SpellcheckConfig{Enabled: true, Dictionary: filepath.Join(f.root, "words.txt")},
	}
	config.ApplyDefaults(f.cfg)
	require.NoError(t, config.Validate(f.cfg))
	return f
}

func (f *fixture) site(t *testing.T) *Site {
	t.Helper()
	s, err := New(f.cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestWrite(t *testing.T) {
	f := newFixture(t)
	s := f.site(t)

	res, err := s.Write(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Redirects)
	assert.Equal(t, 1, res.Report.Packages)

	testutil.NewFileAssertions(t, f.out).
		Exists("index.md").
		Contains("pkg-a/index.md", "title: A").
		Exists("blog/posts/partial/a/hello.md").
		Missing("pkg-a/blog/posts/hello.md")

	guide, err := document.ParseFile(filepath.Join(f.out, "pkg-a", "guide.md"))
	require.NoError(t, err)
	assert.Contains(t, guide.Content, "[home](/pkg-a/index.md)")
	assert.Equal(t, "a", guide.Meta[document.KeyDocsPackage])

	stub, err := os.ReadFile(filepath.Join(f.out, "pkg-a", "old", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(stub), "/pkg-a/guide/")

	post, err := document.ParseFile(filepath.Join(f.out, "blog", "posts", "partial", "a", "hello.md"))
	require.NoError(t, err)
	assert.Equal(t, []any{"A"}, post.Meta["categories"])
}

func TestWrite_RemovesDroppedFiles(t *testing.T) {
	f := newFixture(t)
	s := f.site(t)

	_, err := s.Write(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.srcA, "guide.md")))

	res, err := s.Write(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.Changes.Removed, "pkg-a/guide.md")
	assert.Zero(t, res.Redirects)
	assert.NoFileExists(t, filepath.Join(f.out, "pkg-a", "guide.md"))
	assert.NoFileExists(t, filepath.Join(f.out, "pkg-a", "old", "index.html"))
	assert.FileExists(t, filepath.Join(f.out, "pkg-a", "index.md"))
}

func TestWrite_Clean(t *testing.T) {
	f := newFixture(t)
	f.cfg.Site.Clean = true
	testutil.WriteFile(t, filepath.Join(f.out, "leftover.md"), "old")

	_, err := f.site(t).Write(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(f.out, "leftover.md"))
	assert.FileExists(t, filepath.Join(f.out, "index.md"))
}

func TestWrite_ParseErrorAborts(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFile(t, filepath.Join(f.srcA, "broken.md"), "---\ntitle: [unclosed\n---\n")

	_, err := f.site(t).Write(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryParse))
	assert.NoFileExists(t, filepath.Join(f.out, "index.md"))
}

func TestEditURL(t *testing.T) {
	f := newFixture(t)
	s := f.site(t)

	url, ok, err := s.EditURL(context.Background(), "pkg-a/guide.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/org/a/edit/main/docs/guide.md", url)

	url, ok, err = s.EditURL(context.Background(), "blog/posts/partial/a/hello.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/org/a/edit/main/docs/blog/posts/hello.md", url)

	_, ok, err = s.EditURL(context.Background(), "index.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClose_RemovesSyncedPosts(t *testing.T) {
	f := newFixture(t)
	s := f.site(t)
	_, _, err := s.Build(context.Background())
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(f.docs, "blog", "posts", "partial", "a"))

	require.NoError(t, s.Close())
	assert.NoDirExists(t, filepath.Join(f.docs, "blog", "posts", "partial"))
}

func TestSpellcheck(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFile(t, filepath.Join(f.srcA, "typo.md"), "# Gide\n")
	testutil.WriteFile(t, filepath.Join(f.srcA, "skip.md"), "---\nspellcheck: false\n---\n# Zzzz\n")
	testutil.WriteFile(t, filepath.Join(f.srcA, "known_words.txt"), "partialdocs\n")
	testutil.WriteFile(t, filepath.Join(f.srcA, "words.md"), "# Partialdocs\n")

	found, err := f.site(t).Spellcheck(context.Background())
	require.NoError(t, err)

	var words []string
	for _, m := range found {
		words = append(words, m.Page+":"+m.Word)
	}
	assert.Contains(t, words, "pkg-a/typo.md:gide")
	for _, w := range words {
		assert.NotContains(t, w, "zzzz")
		assert.NotContains(t, w, "partialdocs")
	}
}

func TestSpellcheck_Disabled(t *testing.T) {
	f := newFixture(t)
	f.cfg.Spellcheck.Enabled = false
	_, err := f.site(t).Spellcheck(context.Background())
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestMacros(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFile(t, filepath.Join(f.docs, "links.md"), "---\nrender_macros: true\n---\n[A]({{ \"index.md\" | package_link \"a\" }})\n")

	files, _, err := f.site(t).Build(context.Background())
	require.NoError(t, err)
	e, ok := files.Get("links.md")
	require.True(t, ok)
	assert.Equal(t, "[A](/pkg-a/index.md)\n", e.Doc.Content)
}

func TestRoots(t *testing.T) {
	f := newFixture(t)
	roots := f.site(t).Roots()

	assert.ElementsMatch(t, []string{f.docs, f.srcA, filepath.Join(f.srcA, "blog", "posts")}, roots.Watch)
	assert.ElementsMatch(t, []string{filepath.Join(f.docs, "blog", "posts", "partial"), f.out}, roots.Ignore)
	assert.True(t, roots.Relevant(filepath.Join(f.srcA, "guide.md")))
	assert.False(t, roots.Relevant(filepath.Join(f.docs, "blog", "posts", "partial", "a", "hello.md")))
}

func TestNew_DetectEditURLFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.cfg.Packages[0].EditURLTemplate = ""
	f.cfg.Packages[0].DetectEditURL = true

	s := f.site(t)
	p, ok := s.Packages().Lookup("a")
	require.True(t, ok)
	assert.Empty(t, p.EditURLTemplate)
}

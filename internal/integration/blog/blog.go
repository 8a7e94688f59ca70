// Package blog syncs the blog posts of documentation packages into the host's
// blog directory, where the site's blog engine picks them up.
//
// Posts of package P found under <P source>/<post dir> are written to
// <docs dir>/<post dir>/partial/<P>. The package title is prepended to each
// post's categories.
package blog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

const (
	// Name is the integration name.
	Name = "blog"

	DefaultBlogDir = "blog"
	DefaultPostDir = "{blog}/posts"

	partialDir  = "partial"
	categoryKey = "categories"
	postExt     = ".md"
)

// Source is a package contributing posts.
type Source struct {
	ID        string
	SourceDir string
	// Title becomes the first category of each synced post. Empty adds none.
	Title string
}

// Config locates the blog inside the host's docs directory.
type Config struct {
	DocsDir string
	BlogDir string
	// PostDir may reference the blog directory as {blog}.
	PostDir string
}

// Integration implements the blog capabilities.
type Integration struct {
	docsDir string
	postDir string
	sources []Source
	logger  *slog.Logger

	mu      sync.Mutex
	stopped bool
}

var (
	_ integration.Syncer                = (*Integration)(nil)
	_ integration.Stopper               = (*Integration)(nil)
	_ integration.Watcher               = (*Integration)(nil)
	_ integration.PostFilter            = (*Integration)(nil)
	_ integration.SupportsEditableLinks = (*Integration)(nil)
)

// New creates the integration for sources.
func New(cfg Config, sources []Source, logger *slog.Logger) *Integration {
	if logger == nil {
		logger = slog.Default()
	}
	blogDir := cfg.BlogDir
	if blogDir == "" {
		blogDir = DefaultBlogDir
	}
	postDir := cfg.PostDir
	if postDir == "" {
		postDir = DefaultPostDir
	}
	postDir = strings.ReplaceAll(postDir, "{blog}", paths.Normalize(blogDir))
	return &Integration{
		docsDir: cfg.DocsDir,
		postDir: paths.Join("", postDir),
		sources: sources,
		logger:  logger,
	}
}

func (b *Integration) Name() string { return Name }

// PostDir is the post directory relative to the docs and package source dirs.
func (b *Integration) PostDir() string { return b.postDir }

func (b *Integration) partialRoot() string {
	return filepath.Join(b.docsDir, filepath.FromSlash(b.postDir), partialDir)
}

func (b *Integration) source(s Source) string {
	return filepath.Join(s.SourceDir, filepath.FromSlash(b.postDir))
}

func (b *Integration) target(s Source) string {
	return filepath.Join(b.partialRoot(), s.ID)
}

// Sync writes the posts of every source into its target directory. Posts are
// rewritten only when their content changed and stale posts are removed.
func (b *Integration) Sync(ctx context.Context) error {
	for _, s := range b.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.syncSource(ctx, s); err != nil {
			return integration.NewError(Name, "sync", err)
		}
	}
	return nil
}

func (b *Integration) syncSource(ctx context.Context, s Source) error {
	source, target := b.source(s), b.target(s)
	logger := b.logger.With(logfields.Package(s.ID))

	posts, err := listPosts(source)
	if err != nil {
		return err
	}

	written := make(map[string]bool, len(posts))
	for _, rel := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		dest := filepath.Join(target, filepath.FromSlash(rel))
		written[dest] = true

		data, err := b.render(filepath.Join(source, filepath.FromSlash(rel)), s.Title)
		if err != nil {
			return err
		}
		if existing, err := os.ReadFile(dest); err == nil && string(existing) == string(data) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return errors.IO("create post directory", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, data, 0o600); err != nil {
			return errors.IO("write post", dest, err)
		}
		logger.Debug("Synced blog post", logfields.Path(rel), logfields.Destination(dest))
	}

	stale, err := listPosts(target)
	if err != nil {
		return err
	}
	for _, rel := range stale {
		dest := filepath.Join(target, filepath.FromSlash(rel))
		if written[dest] {
			continue
		}
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			return errors.IO("remove stale post", dest, err)
		}
		logger.Debug("Removed stale blog post", logfields.Path(dest))
	}

	if len(posts) > 0 || len(stale) > 0 {
		logger.Info("Blog posts synced", logfields.Count(len(posts)), logfields.Path(target))
	}
	return nil
}

// render parses a post and prepends the category.
func (b *Integration) render(src, category string) ([]byte, error) {
	doc, err := document.ParseFile(src)
	if err != nil {
		return nil, err
	}
	if category != "" {
		if doc.Meta == nil {
			doc.Meta = make(map[string]any)
		}
		cats := integration.CategoriesFrom(doc.Meta[categoryKey]).Insert(category)
		doc.Meta[categoryKey] = cats.Value()
	}
	return document.Serialize(doc)
}

// listPosts returns the Markdown files below dir, relative and sorted.
// A missing dir has no posts.
func listPosts(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == dir {
				return filepath.SkipAll
			}
			return errors.IO("walk", p, err)
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !paths.HasExt(p, postExt) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return errors.IO("resolve path", p, err)
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

// IsPost reports whether file, a path inside the source of package pkg, is a
// blog post. Posts are synced rather than overlaid.
func (b *Integration) IsPost(pkg, file string) bool {
	for _, s := range b.sources {
		if s.ID == pkg {
			return within(file, b.source(s))
		}
	}
	return false
}

// SourcePath maps a synced post, given relative to the docs dir, back to its
// path relative to the owning package's source dir.
func (b *Integration) SourcePath(page string) (string, string, bool) {
	page = paths.Join("", page)
	prefix := paths.Join(b.postDir, partialDir)
	rest, err := paths.Relative(page, prefix)
	if err != nil || rest == "." || strings.HasPrefix(rest, "../") || rest == ".." {
		return "", "", false
	}
	id, rel, ok := strings.Cut(rest, "/")
	if !ok {
		return "", "", false
	}
	for _, s := range b.sources {
		if s.ID == id {
			return id, paths.Join(b.postDir, rel), true
		}
	}
	return "", "", false
}

// WatchRoots returns the post directories of every source.
func (b *Integration) WatchRoots() []string {
	out := make([]string, 0, len(b.sources))
	for _, s := range b.sources {
		out = append(out, b.source(s))
	}
	return out
}

// IgnoreRoots returns the synced tree, which Sync itself writes.
func (b *Integration) IgnoreRoots() []string {
	return []string{b.partialRoot()}
}

// Stop removes every synced post and the partial directory once empty.
// Further calls do nothing.
func (b *Integration) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return nil
	}
	b.stopped = true

	for _, s := range b.sources {
		if err := os.RemoveAll(b.target(s)); err != nil {
			return integration.NewError(Name, "stop", errors.IO("remove synced posts", b.target(s), err))
		}
	}
	root := b.partialRoot()
	if entries, err := os.ReadDir(root); err == nil && len(entries) == 0 {
		if err := os.Remove(root); err != nil {
			return integration.NewError(Name, "stop", errors.IO("remove partial directory", root, err))
		}
	}
	return nil
}

func within(file, dir string) bool {
	absFile, err := filepath.Abs(file)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return paths.IsWithin(filepath.ToSlash(absFile), filepath.ToSlash(absDir))
}

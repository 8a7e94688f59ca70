// Package integration defines the capabilities a site feature can offer to the
// overlay builder and the edit URL resolver.
//
// Integrations are plain values registered in a Registry. Callers discover a
// capability by type assertion through Find rather than by name, so a feature
// only implements the interfaces it needs.
package integration

import (
	"context"

	"git.home.luguber.info/inful/partialdocs/internal/document"
)

// Integration is a site feature cooperating with documentation packages.
type Integration interface {
	// Name identifies the integration in logs and errors.
	Name() string
}

// Syncer prepares integration owned files before the overlay runs.
type Syncer interface {
	Integration
	Sync(ctx context.Context) error
}

// Stopper releases everything the integration created on disk.
type Stopper interface {
	Integration
	Stop() error
}

// Watcher contributes directories that must trigger a rebuild when changed.
type Watcher interface {
	Integration
	WatchRoots() []string
	// IgnoreRoots lists directories written by the integration itself.
	IgnoreRoots() []string
}

// SupportsEditableLinks maps a page the integration placed on the site back
// to the package that owns its source.
type SupportsEditableLinks interface {
	Integration
	// SourcePath returns the owning package id and the page's path relative
	// to that package's source directory.
	SourcePath(page string) (pkg string, rel string, ok bool)
}

// SupportsRedirects receives the redirect sources declared by a page.
type SupportsRedirects interface {
	Integration
	AddRedirects(page string, sources []string)
}

// PostFilter claims package files that the overlay must not inject.
type PostFilter interface {
	Integration
	IsPost(pkg string, sourceFile string) bool
}

// WantsKnownWords asks the overlay to ship each package's known words file.
type WantsKnownWords interface {
	Integration
	WantsKnownWords() bool
}

// PageFilter excludes pages from the integration's page processing.
type PageFilter interface {
	Integration
	Skip(page string, doc *document.Document) bool
}

// Files is the view of the merged file set offered to FileSetHook.
type Files interface {
	Paths() []string
	Data(path string) ([]byte, bool)
	Remove(path string) bool
}

// FileSetHook inspects or trims the merged file set after all packages were
// overlaid.
type FileSetHook interface {
	Integration
	AfterOverlay(files Files) error
}

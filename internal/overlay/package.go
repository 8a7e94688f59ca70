package overlay

import (
	"regexp"
	"strings"
	"sync"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

var packageIDPattern = regexp.MustCompile(`^[A-Za-z0-9+_-]+$`)

// Package describes one documentation package contributing to the site.
type Package struct {
	ID string
	// SourceDir is the directory holding the package's documentation files.
	SourceDir string
	// Directory is the destination prefix inside the site. Empty means the
	// site root.
	Directory       string
	Title           string
	EditURLTemplate string
	Enabled         bool
}

// Validate checks the descriptor fields that do not depend on the filesystem.
func (p Package) Validate() error {
	if !packageIDPattern.MatchString(p.ID) {
		return errors.Validation("id", "package id must match [A-Za-z0-9+_-]+").
			WithContext("package", p.ID)
	}
	if strings.TrimSpace(p.SourceDir) == "" {
		return errors.Validation("source", "package source directory is required").
			WithContext("package", p.ID)
	}
	if p.EditURLTemplate != "" && !strings.Contains(p.EditURLTemplate, "{path}") {
		return errors.Validation("edit_url_template", "template must contain {path}").
			WithContext("package", p.ID)
	}
	return nil
}

// normalizeDirectory turns a destination prefix into the form used for
// destination paths: forward slashes, no leading or trailing slash.
func normalizeDirectory(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return ""
	}
	dir = strings.Trim(paths.Normalize(dir), "/")
	if dir == "." {
		return ""
	}
	return dir
}

// Registry is the ordered set of packages taking part in a build.
// Registration order is overlay order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Package
}

// NewRegistry registers pkgs in order.
func NewRegistry(pkgs ...Package) (*Registry, error) {
	r := &Registry{byID: make(map[string]Package)}
	for _, p := range pkgs {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates p and appends it. Duplicate ids are rejected.
func (r *Registry) Register(p Package) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Directory = normalizeDirectory(p.Directory)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byID == nil {
		r.byID = make(map[string]Package)
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.Validation("id", "package "+p.ID+" already registered").
			WithContext("package", p.ID)
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

// Lookup returns the package registered under id.
func (r *Registry) Lookup(id string) (Package, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// Directory returns the destination prefix of package id.
func (r *Registry) Directory(id string) (string, bool) {
	p, ok := r.Lookup(id)
	return p.Directory, ok
}

// Packages returns all packages in registration order.
func (r *Registry) Packages() []Package {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Package, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Enabled returns the enabled packages in registration order.
func (r *Registry) Enabled() []Package {
	var out []Package
	for _, p := range r.Packages() {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

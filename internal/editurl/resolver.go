package editurl

import (
	"log/slog"

	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/overlay"
)

// Templates returns the edit URL template of a package.
type Templates interface {
	Lookup(id string) (overlay.Package, bool)
}

// Resolver computes edit URLs for rendered pages.
type Resolver struct {
	chain     *Chain
	templates Templates
	logger    *slog.Logger
}

// NewResolver wires the standard chain: overlay entries first, then every
// integration that can map its pages back to a package.
func NewResolver(files *overlay.FileSet, packages *overlay.Registry, ints *integration.Registry) *Resolver {
	chain := NewChain()
	if files != nil {
		chain.Add(NewOverlayDetector(files, packages))
	}
	for _, linker := range integration.Find[integration.SupportsEditableLinks](ints) {
		chain.Add(NewIntegrationDetector(linker))
	}
	return NewResolverWithChain(chain, packages)
}

// NewResolverWithChain creates a resolver with a custom detector chain (for testing).
func NewResolverWithChain(chain *Chain, templates Templates) *Resolver {
	return &Resolver{chain: chain, templates: templates, logger: slog.Default()}
}

// Resolve returns the edit URL of page. Pages not owned by a package with a
// template have none.
func (r *Resolver) Resolve(page Page) (string, bool) {
	match, detector := r.chain.Detect(page)
	if !match.Found {
		return "", false
	}
	pkg, ok := r.templates.Lookup(match.Package)
	if !ok || pkg.EditURLTemplate == "" {
		return "", false
	}
	url, err := Template(pkg.EditURLTemplate).Expand(match.Path)
	if err != nil {
		r.logger.Warn("Invalid edit URL template", logfields.Package(pkg.ID), logfields.Error(err))
		return "", false
	}
	r.logger.Debug("Resolved edit URL", logfields.Path(page.SrcPath), logfields.Package(pkg.ID),
		slog.String("detector", detector))
	return url, true
}

package editurl

import (
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

// Page identifies a rendered page by its path relative to the site's docs root.
type Page struct {
	SrcPath string
}

// Match names the package owning a page and the page's path relative to
// that package's source directory.
type Match struct {
	Package string
	Path    string
	Found   bool
}

// Detector maps a page to its owning package.
type Detector interface {
	Detect(page Page) Match
	// Name returns a human-readable name for this detector (for debugging/logging).
	Name() string
}

// Chain asks its detectors in order until one matches.
type Chain struct {
	detectors []Detector
}

func NewChain(detectors ...Detector) *Chain {
	return &Chain{detectors: detectors}
}

// Add appends a detector to the chain.
func (c *Chain) Add(d Detector) *Chain {
	c.detectors = append(c.detectors, d)
	return c
}

func (c *Chain) Detect(page Page) (Match, string) {
	for _, d := range c.detectors {
		if m := d.Detect(page); m.Found {
			return m, d.Name()
		}
	}
	return Match{}, ""
}

// Origins reports which package contributed a site path.
type Origins interface {
	OriginOf(path string) (string, bool)
}

// Directories returns the destination prefix of a package.
type Directories interface {
	Directory(id string) (string, bool)
}

// OverlayDetector matches pages injected by the overlay builder.
type OverlayDetector struct {
	origins     Origins
	directories Directories
}

func NewOverlayDetector(origins Origins, directories Directories) *OverlayDetector {
	return &OverlayDetector{origins: origins, directories: directories}
}

func (d *OverlayDetector) Name() string { return "overlay" }

func (d *OverlayDetector) Detect(page Page) Match {
	if d.origins == nil || d.directories == nil {
		return Match{}
	}
	src := paths.Join("", page.SrcPath)
	pkg, ok := d.origins.OriginOf(src)
	if !ok {
		return Match{}
	}
	dir, ok := d.directories.Directory(pkg)
	if !ok {
		return Match{}
	}
	rel, err := paths.Relative(src, dir)
	if err != nil {
		return Match{}
	}
	return Match{Package: pkg, Path: rel, Found: true}
}

// IntegrationDetector matches pages placed on the site by an integration,
// such as synced blog posts.
type IntegrationDetector struct {
	linker integration.SupportsEditableLinks
}

func NewIntegrationDetector(linker integration.SupportsEditableLinks) *IntegrationDetector {
	return &IntegrationDetector{linker: linker}
}

func (d *IntegrationDetector) Name() string { return d.linker.Name() }

func (d *IntegrationDetector) Detect(page Page) Match {
	pkg, rel, ok := d.linker.SourcePath(paths.Join("", page.SrcPath))
	if !ok {
		return Match{}
	}
	return Match{Package: pkg, Path: rel, Found: true}
}

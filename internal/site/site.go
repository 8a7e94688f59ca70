// Package site wires configuration, the overlay builder and the integrations
// into the operations offered by the CLI.
package site

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/partialdocs/internal/config"
	"git.home.luguber.info/inful/partialdocs/internal/editurl"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/integration/blog"
	"git.home.luguber.info/inful/partialdocs/internal/integration/macros"
	"git.home.luguber.info/inful/partialdocs/internal/integration/redirects"
	"git.home.luguber.info/inful/partialdocs/internal/integration/spellcheck"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/metrics"
	"git.home.luguber.info/inful/partialdocs/internal/overlay"
)

// Site is a configured documentation site.
type Site struct {
	cfg          *config.Config
	packages     *overlay.Registry
	integrations *integration.Registry
	recorder     metrics.Recorder
	logger       *slog.Logger

	blog       *blog.Integration
	spellcheck *spellcheck.Integration
	macros     *macros.Integration
	redirects  *redirects.Collector

	mu   sync.Mutex
	last *overlay.FileSet
	// stubs are the redirect stub paths of the previous Write.
	stubs map[string]bool
}

// Option configures a Site.
type Option func(*Site)

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Site) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// New registers the configured packages and integrations.
func New(cfg *config.Config, opts ...Option) (*Site, error) {
	s := &Site{cfg: cfg, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	packages, err := overlay.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, pc := range cfg.Packages {
		if err := packages.Register(s.packageFor(pc)); err != nil {
			return nil, err
		}
	}
	s.packages = packages

	ints, err := integration.NewRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Blog.Enabled {
		s.blog = blog.New(blog.Config{
			DocsDir: cfg.Site.DocsDir,
			BlogDir: cfg.Blog.BlogDir,
			PostDir: cfg.Blog.PostDir,
		}, blogSources(packages), s.logger)
		if err := ints.Register(s.blog); err != nil {
			return nil, err
		}
	}
	if cfg.Spellcheck.Enabled {
		dict, err := spellcheck.LoadWordList(cfg.Spellcheck.Dictionary)
		if err != nil {
			return nil, err
		}
		s.spellcheck = spellcheck.New(spellcheck.Options{
			Dictionary: dict,
			MinLength:  cfg.Spellcheck.MinLength,
			CheckCode:  cfg.Spellcheck.CheckCode,
		}, s.logger)
		if err := ints.Register(s.spellcheck); err != nil {
			return nil, err
		}
	}
	if cfg.Macros.Enabled {
		s.macros = macros.New(packages)
		if err := ints.Register(s.macros); err != nil {
			return nil, err
		}
	}
	if cfg.Redirects.Enabled {
		s.redirects = redirects.New(s.logger)
		if err := ints.Register(s.redirects); err != nil {
			return nil, err
		}
	}
	s.integrations = ints
	return s, nil
}

// packageFor converts a package configuration, detecting the edit URL
// template from git when asked to.
func (s *Site) packageFor(pc config.PackageConfig) overlay.Package {
	p := overlay.Package{
		ID:              pc.ID,
		SourceDir:       pc.Source,
		Directory:       pc.Directory,
		Title:           pc.Title,
		EditURLTemplate: pc.EditURLTemplate,
		Enabled:         pc.IsEnabled(),
	}
	if p.EditURLTemplate == "" && pc.DetectEditURL {
		tpl, err := editurl.DetectTemplate(pc.Source)
		if err != nil {
			s.logger.Warn("Could not detect edit URL template", logfields.Package(pc.ID), logfields.Error(err))
		} else {
			p.EditURLTemplate = string(tpl)
			s.logger.Debug("Detected edit URL template", logfields.Package(pc.ID), slog.String("template", p.EditURLTemplate))
		}
	}
	return p
}

func blogSources(packages *overlay.Registry) []blog.Source {
	var out []blog.Source
	for _, p := range packages.Enabled() {
		out = append(out, blog.Source{ID: p.ID, SourceDir: p.SourceDir, Title: p.Title})
	}
	return out
}

// Packages returns the package registry.
func (s *Site) Packages() *overlay.Registry { return s.packages }

// Integrations returns the integration registry.
func (s *Site) Integrations() *integration.Registry { return s.integrations }

// Build syncs integration files and overlays every package onto the host docs.
func (s *Site) Build(ctx context.Context) (*overlay.FileSet, overlay.Report, error) {
	if s.redirects != nil {
		s.redirects.Reset()
	}
	if s.spellcheck != nil {
		s.spellcheck.ResetKnownWords()
	}
	for _, syncer := range integration.Find[integration.Syncer](s.integrations) {
		if err := syncer.Sync(ctx); err != nil {
			return nil, overlay.Report{}, err
		}
	}

	builder := overlay.NewBuilder(s.packages,
		overlay.WithIntegrations(s.integrations),
		overlay.WithRecorder(s.recorder),
		overlay.WithLogger(s.logger),
		overlay.WithBaseDir(s.cfg.Site.DocsDir),
	)
	files, report, err := builder.Build(ctx)
	if err != nil {
		return nil, report, err
	}

	if s.macros != nil {
		for _, e := range files.Entries() {
			if e.Kind != overlay.KindDocument || !macros.Enabled(e.Doc) {
				continue
			}
			if err := s.macros.Render(e.Path, e.Doc); err != nil {
				return nil, report, err
			}
		}
	}

	s.mu.Lock()
	s.last = files
	s.mu.Unlock()
	return files, report, nil
}

// EditURL resolves the edit URL of a page of the last build, building first
// when nothing was built yet.
func (s *Site) EditURL(ctx context.Context, page string) (string, bool, error) {
	files, err := s.lastOrBuild(ctx)
	if err != nil {
		return "", false, err
	}
	url, ok := editurl.NewResolver(files, s.packages, s.integrations).Resolve(editurl.Page{SrcPath: page})
	return url, ok, nil
}

func (s *Site) lastOrBuild(ctx context.Context) (*overlay.FileSet, error) {
	s.mu.Lock()
	files := s.last
	s.mu.Unlock()
	if files != nil {
		return files, nil
	}
	files, _, err := s.Build(ctx)
	return files, err
}

// Close releases everything integrations created on disk.
func (s *Site) Close() error {
	var first error
	for _, stopper := range integration.Find[integration.Stopper](s.integrations) {
		if err := stopper.Stop(); err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return errors.Wrap(first, errors.CategoryIO, errors.SeverityWarning, "stopping integrations")
	}
	return nil
}

package overlay

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/markdown"
	"git.home.luguber.info/inful/partialdocs/internal/metrics"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

const (
	// DocumentExtension marks files parsed as documents. Everything else is media.
	DocumentExtension = ".md"
	// KnownWordsFile is shipped only when an integration asks for it.
	KnownWordsFile = "known_words.txt"
	// LinkScheme prefixes cross-package link destinations: pkg://<id>/<path>.
	LinkScheme = "pkg://"

	indexFile = "index" + DocumentExtension
)

// Builder overlays registered packages onto a file set.
type Builder struct {
	registry     *Registry
	integrations *integration.Registry
	recorder     metrics.Recorder
	logger       *slog.Logger
	baseDir      string
}

// Option configures a Builder.
type Option func(*Builder)

// WithIntegrations makes the builder consult the capabilities of reg.
func WithIntegrations(reg *integration.Registry) Option {
	return func(b *Builder) { b.integrations = reg }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBaseDir seeds every build with the host's own documentation directory.
// Package files landing on a host page merge into it like any other collision.
func WithBaseDir(dir string) Option {
	return func(b *Builder) { b.baseDir = dir }
}

// NewBuilder creates a builder for the packages in reg.
func NewBuilder(reg *Registry, opts ...Option) *Builder {
	b := &Builder{
		registry: reg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build overlays every enabled package, in registration order, onto a fresh
// file set. Repeated builds over unchanged sources produce identical sets.
func (b *Builder) Build(ctx context.Context) (*FileSet, Report, error) {
	buildID := uuid.NewString()
	logger := b.logger.With(logfields.BuildID(buildID))
	start := time.Now()
	report := Report{BuildID: buildID}

	files := NewFileSet()
	if b.baseDir != "" {
		rep, err := b.seed(ctx, logger, files)
		report.add(rep)
		if err != nil {
			b.recordFailure(err)
			return nil, report, err
		}
	}

	for _, pkg := range b.registry.Packages() {
		if !pkg.Enabled {
			logger.Debug("Skipping disabled documentation package", logfields.Package(pkg.ID))
			continue
		}
		rep, err := b.overlay(ctx, logger, pkg, files)
		report.add(rep)
		if err != nil {
			b.recordFailure(err)
			return nil, report, err
		}
	}

	for _, hook := range integration.Find[integration.FileSetHook](b.integrations) {
		if err := hook.AfterOverlay(files); err != nil {
			err = integration.NewError(hook.Name(), "after overlay", err)
			b.recordFailure(err)
			return nil, report, err
		}
	}

	report.Duration = time.Since(start)
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	logger.Info("Overlay complete",
		slog.Int("packages", report.Packages),
		slog.Int("documents", report.Documents),
		slog.Int("media", report.Media),
		slog.Int("merged", report.Merged),
		slog.Int("rejected", report.Rejected),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return files, report, nil
}

// Overlay injects the files of pkg into files.
func (b *Builder) Overlay(ctx context.Context, pkg Package, files *FileSet) (Report, error) {
	return b.overlay(ctx, b.logger, pkg, files)
}

func (b *Builder) overlay(ctx context.Context, logger *slog.Logger, pkg Package, files *FileSet) (Report, error) {
	start := time.Now()
	pkg.Directory = normalizeDirectory(pkg.Directory)
	logger = logger.With(logfields.Package(pkg.ID))
	report := Report{Packages: 1}

	info, err := os.Stat(pkg.SourceDir)
	if err != nil || !info.IsDir() {
		logger.Warn("Documentation package source not found, skipping", logfields.Path(pkg.SourceDir))
		report.Skipped++
		return report, nil
	}

	logger.Info("Injecting documentation package",
		logfields.Destination(pkg.Directory), logfields.Path(pkg.SourceDir))

	sources, err := paths.ListFiles(pkg.SourceDir)
	if err != nil {
		return report, err
	}

	wantsKnownWords := b.wantsKnownWords()
	for _, f := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rel, src := f.Rel, f.Path
		dest := paths.Join(pkg.Directory, rel)

		if paths.HasExt(rel, DocumentExtension) {
			if b.isPost(pkg.ID, src) {
				report.Skipped++
				continue
			}
			merged, err := b.overlayDocument(logger, pkg, rel, src, dest, files)
			if err != nil {
				return report, err
			}
			report.Documents++
			if merged {
				report.Merged++
			}
			continue
		}

		if path.Base(rel) == KnownWordsFile && !wantsKnownWords {
			report.Skipped++
			continue
		}
		added, err := b.overlayMedia(logger, pkg, src, dest, files, &report)
		if err != nil {
			return report, err
		}
		if added {
			report.Media++
		}
	}

	d := time.Since(start)
	b.recorder.ObserveOverlayDuration(pkg.ID, d)
	logger.Debug("Package overlaid", logfields.Count(report.Documents+report.Media),
		logfields.DurationMS(float64(d.Milliseconds())))
	return report, nil
}

func (b *Builder) overlayDocument(logger *slog.Logger, pkg Package, rel, src, dest string, files *FileSet) (bool, error) {
	doc, err := document.ParseFile(src)
	if err != nil {
		return false, err
	}

	content, err := markdown.RewriteLinks([]byte(doc.Content), b.resolveLink)
	if err != nil {
		if e, ok := errors.As(err); ok {
			return false, e.WithContext("path", src)
		}
		return false, err
	}
	doc.Content = string(content)

	if sources := doc.Strings(document.KeyRedirects); len(sources) > 0 {
		normalized := make([]string, 0, len(sources))
		for _, s := range sources {
			normalized = append(normalized, paths.Join(pkg.Directory, s))
		}
		for _, r := range integration.Find[integration.SupportsRedirects](b.integrations) {
			r.AddRedirects(dest, normalized)
		}
	}

	merged := false
	if existing, ok := files.Get(dest); ok && existing.Kind == KindDocument {
		logger.Debug("Merging page", logfields.Destination(dest), logfields.Origin(existing.Origin))
		doc = document.Merge(existing.Doc, doc, pkg.ID)
		merged = true
		b.recorder.IncCollision(metrics.CollisionMerged)
	}

	if strings.EqualFold(rel, indexFile) && pkg.Title != "" {
		document.StampTitle(doc, pkg.Title)
	}
	document.StampProvenance(doc, pkg.ID)

	files.Put(&Entry{Path: dest, Kind: KindDocument, Doc: doc, Origin: pkg.ID, Source: src})
	b.recorder.IncFilesOverlaid(metrics.KindDocument)
	return merged, nil
}

// overlayMedia copies a media file unless its destination is taken. An
// unreadable file fails the overlay.
func (b *Builder) overlayMedia(logger *slog.Logger, pkg Package, src, dest string, files *FileSet, report *Report) (bool, error) {
	if existing, ok := files.Get(dest); ok {
		logger.Warn("Can not register file, destination already taken",
			logfields.Path(src), logfields.Destination(dest), logfields.Origin(existing.Origin))
		report.Rejected++
		b.recorder.IncCollision(metrics.CollisionRejected)
		return false, nil
	}

	// #nosec G304 -- src comes from walking the package source directory.
	data, err := os.ReadFile(src)
	if err != nil {
		return false, errors.IO("read file", src, err).WithContext("package", pkg.ID)
	}
	files.Put(&Entry{Path: dest, Kind: KindMedia, Data: data, Origin: pkg.ID, Source: src})
	b.recorder.IncFilesOverlaid(metrics.KindMedia)
	return true, nil
}

// seed loads the host documentation directory without stamping provenance.
func (b *Builder) seed(ctx context.Context, logger *slog.Logger, files *FileSet) (Report, error) {
	var report Report
	if info, err := os.Stat(b.baseDir); err != nil || !info.IsDir() {
		return report, nil
	}
	sources, err := paths.ListFiles(b.baseDir)
	if err != nil {
		return report, err
	}
	for _, f := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rel, src := f.Rel, f.Path
		if paths.HasExt(rel, DocumentExtension) {
			doc, err := document.ParseFile(src)
			if err != nil {
				return report, err
			}
			files.Put(&Entry{Path: rel, Kind: KindDocument, Doc: doc, Source: src})
			report.Documents++
			continue
		}
		// #nosec G304 -- src comes from walking the host docs directory.
		data, err := os.ReadFile(src)
		if err != nil {
			return report, errors.IO("read file", src, err)
		}
		files.Put(&Entry{Path: rel, Kind: KindMedia, Data: data, Source: src})
		report.Media++
	}
	logger.Debug("Seeded host documentation", logfields.Path(b.baseDir), logfields.Count(len(sources)))
	return report, nil
}

// resolveLink rewrites pkg://<id>/<path> to the absolute site path of the
// target package.
func (b *Builder) resolveLink(dest string) (string, bool, error) {
	rest, ok := strings.CutPrefix(dest, LinkScheme)
	if !ok {
		return "", false, nil
	}
	id, target, _ := strings.Cut(rest, "/")
	dir, ok := b.registry.Directory(id)
	if !ok {
		return "", false, errors.Validation("link", "unknown package "+id).WithContext("link", dest)
	}
	joined := paths.Join(dir, target)
	if joined == "." {
		return "/", true, nil
	}
	if strings.HasSuffix(rest, "/") {
		joined += "/"
	}
	return "/" + joined, true, nil
}

func (b *Builder) isPost(pkg, src string) bool {
	for _, f := range integration.Find[integration.PostFilter](b.integrations) {
		if f.IsPost(pkg, src) {
			return true
		}
	}
	return false
}

func (b *Builder) wantsKnownWords() bool {
	for _, w := range integration.Find[integration.WantsKnownWords](b.integrations) {
		if w.WantsKnownWords() {
			return true
		}
	}
	return false
}

func (b *Builder) recordFailure(err error) {
	if isCanceled(err) {
		b.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
		return
	}
	b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
}

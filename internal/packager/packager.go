// Package packager builds installable archives from a documentation directory.
//
// An archive holds rendered distribution metadata, a generated module and the
// documentation files under <module>/<resource dir>/, plus a RECORD manifest
// listing every package file with its sha-256 digest and size.
package packager

import (
	"archive/zip"
	"bufio"
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/manifest"
	"git.home.luguber.info/inful/partialdocs/internal/metrics"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
	"git.home.luguber.info/inful/partialdocs/internal/version"
)

// Archive entries carry a fixed timestamp so identical inputs give identical archives.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Packager writes documentation archives.
type Packager struct {
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Packager.
type Option func(*Packager)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Packager) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Packager) {
		if l != nil {
			p.logger = l
		}
	}
}

func New(opts ...Option) *Packager {
	p := &Packager{recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pack builds the archive described by opts. The archive is written to a
// temporary file in OutputDir and renamed into place only once complete.
func (p *Packager) Pack(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	res, err := p.pack(ctx, opts)
	p.recorder.ObservePackDuration(time.Since(start))
	switch {
	case err == nil:
		p.recorder.IncPackOutcome(metrics.OutcomeSuccess)
	case ctx.Err() != nil:
		p.recorder.IncPackOutcome(metrics.OutcomeCanceled)
	default:
		p.recorder.IncPackOutcome(metrics.OutcomeFailed)
	}
	return res, err
}

func (p *Packager) pack(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	module := ModuleName(opts.Name)
	logger := p.logger.With(logfields.BuildID(uuid.NewString()), logfields.Package(opts.Name))

	sourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, errors.IO("resolve source directory", opts.SourceDir, err)
	}
	if info, statErr := os.Stat(sourceDir); statErr != nil || !info.IsDir() {
		return nil, errors.NotFound("source directory", sourceDir)
	}
	logger.Info("Building documentation package",
		slog.String("version", opts.Version), logfields.Path(sourceDir))

	deps, err := p.dependencies(logger, opts, sourceDir)
	if err != nil {
		return nil, err
	}

	res := &Result{Module: module, Dependencies: deps}
	res.Archive = filepath.Join(opts.OutputDir, ArchiveName(module, opts.Version))

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return nil, errors.IO("create output directory", opts.OutputDir, err)
	}
	tmp, err := os.CreateTemp(opts.OutputDir, "."+ArchiveName(module, opts.Version)+".*.tmp")
	if err != nil {
		return nil, errors.IO("create archive", opts.OutputDir, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := &archiveWriter{zw: zip.NewWriter(tmp)}
	if err := p.writeContents(ctx, logger, w, opts, sourceDir, module, deps, res); err != nil {
		return nil, err
	}
	if err := w.zw.Close(); err != nil {
		return nil, errors.IO("finalize archive", tmp.Name(), err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return nil, errors.IO("stat archive", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.IO("close archive", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), res.Archive); err != nil {
		return nil, errors.IO("rename archive", res.Archive, err)
	}
	committed = true

	res.Records = w.manifest.Records()
	res.Duration = time.Since(start)
	p.recorder.ObserveArchiveBytes(info.Size())
	logger.Info("Package built",
		logfields.Archive(res.Archive),
		logfields.Count(len(res.Records)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (p *Packager) writeContents(ctx context.Context, logger *slog.Logger, w *archiveWriter,
	opts Options, sourceDir, module string, deps []string, res *Result,
) error {
	vars := templateVars(opts, module, deps)
	distInfo := DistInfoDir(module, opts.Version)

	metadata, err := renderTemplates(distInfoSubdir, distInfo, vars)
	if err != nil {
		return errors.InternalError("render distribution metadata", err)
	}
	for _, f := range metadata {
		if err := w.write(f.name, f.data, false); err != nil {
			return err
		}
	}

	pkgFiles, err := renderTemplates(packageSubdir, module, vars)
	if err != nil {
		return errors.InternalError("render package module", err)
	}
	for _, f := range pkgFiles {
		if err := w.write(f.name, f.data, true); err != nil {
			return err
		}
	}

	resourceRoot := module
	if opts.ResourceDir != "" {
		resourceRoot = paths.Join(module, opts.ResourceDir)
	}
	files, err := paths.ListFiles(sourceDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if excluded(opts.Excludes, f.Rel) {
			logger.Debug("Excluding file", logfields.Path(f.Rel))
			res.Excluded = append(res.Excluded, f.Rel)
			continue
		}
		// #nosec G304 -- f.Path comes from listing the package source directory.
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return errors.IO("read", f.Path, err)
		}
		logger.Debug("Packaging file", logfields.Path(f.Rel))
		if err := w.write(paths.Join(resourceRoot, f.Rel), data, true); err != nil {
			return err
		}
	}

	return w.write(path.Join(distInfo, manifest.FileName), w.manifest.Bytes(), false)
}

// dependencies reads the requirements file and appends the self-dependency.
func (p *Packager) dependencies(logger *slog.Logger, opts Options, sourceDir string) ([]string, error) {
	var deps []string
	if opts.Requirements != "" {
		file := opts.Requirements
		if info, err := os.Stat(file); err != nil || info.IsDir() {
			file = filepath.Join(sourceDir, opts.Requirements)
		}
		f, err := os.Open(file)
		switch {
		case os.IsNotExist(err):
			logger.Warn("Requirements file not found", logfields.Path(opts.Requirements))
		case err != nil:
			return nil, errors.IO("open requirements", file, err)
		default:
			defer func() { _ = f.Close() }()
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimRight(scanner.Text(), "\r")
				if strings.TrimSpace(line) == "" {
					continue
				}
				deps = append(deps, line)
			}
			if err := scanner.Err(); err != nil {
				return nil, errors.IO("read requirements", file, err)
			}
		}
	}
	if opts.AddSelfDependency {
		deps = append(deps, version.SelfDependency())
	}
	return deps, nil
}

func templateVars(opts Options, module string, deps []string) map[string]any {
	vars := make(map[string]any, len(opts.ExtraVars)+10)
	for k, v := range opts.ExtraVars {
		vars[k] = v
	}
	if deps == nil {
		deps = []string{}
	}
	vars["package_name"] = opts.Name
	vars["module_name"] = module
	vars["package_version"] = opts.Version
	vars["package_description"] = opts.Description
	vars["dependencies"] = deps
	vars["directory"] = opts.Directory
	vars["edit_url_template"] = opts.EditURLTemplate
	vars["title"] = opts.Title
	vars["resource_dir"] = opts.ResourceDir
	vars["tool_version"] = version.Version
	return vars
}

func excluded(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		subject := base
		if strings.Contains(pattern, "/") {
			subject = rel
		}
		if ok, _ := doublestar.Match(pattern, subject); ok {
			return true
		}
	}
	return false
}

// archiveWriter writes zip entries and records package files.
type archiveWriter struct {
	zw       *zip.Writer
	manifest manifest.Manifest
}

func (w *archiveWriter) write(name string, data []byte, record bool) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: entryTime}
	hdr.SetMode(0o644)
	fw, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return errors.IO("write archive entry", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return errors.IO("write archive entry", name, err)
	}
	if record {
		w.manifest.Add(name, data)
	}
	return nil
}

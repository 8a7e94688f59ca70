package packager

import (
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/manifest"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

// Options describes one pack run.
type Options struct {
	Name        string
	Version     string
	Description string
	// SourceDir holds the documentation files to package.
	SourceDir string
	OutputDir string
	// Excludes are doublestar globs. Patterns containing "/" match the path
	// relative to SourceDir; other patterns match the base name at any depth.
	Excludes []string
	// ResourceDir is the subdirectory of the module receiving the files.
	ResourceDir string
	// Requirements names a requirements file, as given or relative to SourceDir.
	Requirements      string
	AddSelfDependency bool
	// ExtraVars are additional template variables. Built-in variables win on conflict.
	ExtraVars map[string]any

	Directory       string
	EditURLTemplate string
	Title           string
}

// Validate checks everything that can be checked without touching the filesystem.
func (o Options) Validate() error {
	if err := ValidateName(o.Name); err != nil {
		return err
	}
	if strings.TrimSpace(o.Version) == "" {
		return errors.Validation("version", "package version is required")
	}
	if strings.TrimSpace(o.SourceDir) == "" {
		return errors.Validation("source", "source directory is required")
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		return errors.Validation("output", "output directory is required")
	}
	for _, pattern := range o.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Validation("exclude", "invalid glob pattern").WithContext("pattern", pattern)
		}
	}
	if rd := paths.Normalize(o.ResourceDir); o.ResourceDir != "" && (path.IsAbs(rd) || rd == ".." || strings.HasPrefix(rd, "../")) {
		return errors.Validation("resource_dir", "resource directory must stay inside the module").
			WithContext("resource_dir", o.ResourceDir)
	}
	if o.EditURLTemplate != "" && !strings.Contains(o.EditURLTemplate, "{path}") {
		return errors.Validation("edit_url_template", "template must contain {path}")
	}
	return nil
}

// Result describes a written archive.
type Result struct {
	Archive      string
	Module       string
	Dependencies []string
	// Records lists the package files in write order. Dist-info files are not recorded.
	Records  []manifest.Record
	Excluded []string
	Duration time.Duration
}

// ArchiveName is the wheel file name for module and version.
func ArchiveName(module, version string) string {
	return module + "-" + version + "-py3-none-any.whl"
}

// DistInfoDir is the metadata directory inside the archive.
func DistInfoDir(module, version string) string {
	return module + "-" + version + ".dist-info"
}

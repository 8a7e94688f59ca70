// Package config loads the partialdocs site configuration.
package config

// Version is the only supported configuration format version.
const Version = "1"

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "partialdocs.yaml"

// Config is the site configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Site       SiteConfig       `yaml:"site"`
	Packages   []PackageConfig  `yaml:"packages"`
	Blog       BlogConfig       `yaml:"blog,omitempty"`
	Spellcheck SpellcheckConfig `yaml:"spellcheck,omitempty"`
	Macros     ToggleConfig     `yaml:"macros,omitempty"`
	Redirects  ToggleConfig     `yaml:"redirects,omitempty"`
	Watch      WatchConfig      `yaml:"watch,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty"`

	// path is the file the configuration was loaded from.
	path string
}

// SiteConfig describes the host site.
type SiteConfig struct {
	// DocsDir holds the host's own pages. Synced blog posts are written below it.
	DocsDir string `yaml:"docs_dir"`
	// Output receives the merged file set on build.
	Output string `yaml:"output"`
	// Clean empties Output before writing.
	Clean bool `yaml:"clean,omitempty"`
}

// PackageConfig describes one documentation package.
type PackageConfig struct {
	ID              string `yaml:"id"`
	Source          string `yaml:"source"`
	Directory       string `yaml:"directory,omitempty"`
	Title           string `yaml:"title,omitempty"`
	EditURLTemplate string `yaml:"edit_url_template,omitempty"`
	// DetectEditURL derives the edit URL template from the source's git remote
	// when EditURLTemplate is empty.
	DetectEditURL bool  `yaml:"detect_edit_url,omitempty"`
	Enabled       *bool `yaml:"enabled,omitempty"`
}

// IsEnabled defaults to true.
func (p PackageConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// BlogConfig locates the host blog.
type BlogConfig struct {
	Enabled bool   `yaml:"enabled"`
	BlogDir string `yaml:"blog_dir,omitempty"`
	PostDir string `yaml:"post_dir,omitempty"`
}

// SpellcheckConfig configures the spellcheck command.
type SpellcheckConfig struct {
	Enabled bool `yaml:"enabled"`
	// Dictionary is a newline separated word list.
	Dictionary string `yaml:"dictionary,omitempty"`
	MinLength  int    `yaml:"min_length,omitempty"`
	CheckCode  bool   `yaml:"check_code,omitempty"`
}

// ToggleConfig enables an integration without further settings.
type ToggleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// PollInterval adds periodic rebuilds for filesystems without change
	// notifications. Empty disables polling.
	PollInterval string `yaml:"poll_interval,omitempty"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig exposes Prometheus metrics in watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Package returns the package configured under id.
func (c *Config) Package(id string) (*PackageConfig, bool) {
	for i := range c.Packages {
		if c.Packages[i].ID == id {
			return &c.Packages[i], true
		}
	}
	return nil, false
}

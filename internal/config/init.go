package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	enabled := true
	return &Config{
		Version: Version,
		Site:    SiteConfig{DocsDir: DefaultDocsDir, Output: DefaultOutput, Clean: true},
		Packages: []PackageConfig{
			{
				ID:              "example",
				Source:          "../example/docs",
				Directory:       "example",
				Title:           "Example",
				EditURLTemplate: "https://github.com/your-org/example/edit/main/docs/{path}",
				Enabled:         &enabled,
			},
		},
		Blog:    BlogConfig{BlogDir: DefaultBlogDir, PostDir: DefaultPostDir},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Metrics: MetricsConfig{Listen: DefaultMetricsListen},
	}
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Validation("config", "configuration file already exists (use --force to overwrite)").
			WithContext("path", path)
	}
	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.InternalError("marshal example configuration", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.IO("write configuration", path, err)
	}
	return nil
}

package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
)

// EnvFiles are loaded, when present, before the configuration is parsed.
// Variables already set in the process environment win.
var EnvFiles = []string{".env", ".env.local"}

// Load reads, normalizes, defaults and validates the configuration at path.
// ${VAR} references are expanded from the environment.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("configuration file", path)
		}
		return nil, errors.IO("read configuration", path, err)
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if e, ok := errors.As(err); ok {
			return nil, e.WithContext("path", path)
		}
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.IO("resolve configuration path", path, err)
	}
	cfg.path = abs
	cfg.resolvePaths(filepath.Dir(abs))
	return cfg, nil
}

// Parse decodes, normalizes, defaults and validates a configuration document.
// Relative paths are left as written.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.ConfigInvalid("", err)
	}

	if cfg.Version != Version {
		return nil, errors.Validation("version", "unsupported configuration version "+
			"\""+cfg.Version+"\" (expected \""+Version+"\")")
	}

	for _, w := range Normalize(&cfg).Warnings {
		slog.Warn("Configuration normalized", slog.String("detail", w))
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	for _, f := range EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Could not load environment file", logfields.Path(f), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(f))
	}
}

// resolvePaths anchors relative paths at dir, the configuration's directory.
func (c *Config) resolvePaths(dir string) {
	c.Site.DocsDir = anchor(dir, c.Site.DocsDir)
	c.Site.Output = anchor(dir, c.Site.Output)
	c.Spellcheck.Dictionary = anchor(dir, c.Spellcheck.Dictionary)
	for i := range c.Packages {
		c.Packages[i].Source = anchor(dir, c.Packages[i].Source)
	}
}

func anchor(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

// ParseOverride splits a "<id>=<path>" local docs override.
func ParseOverride(s string) (string, string, error) {
	id, p, ok := strings.Cut(s, "=")
	id, p = strings.TrimSpace(id), strings.TrimSpace(p)
	if !ok || id == "" || p == "" {
		return "", "", errors.Validation("local-docs", "expected <id>=<path>").WithContext("value", s)
	}
	return id, p, nil
}

// ApplyLocalOverrides points packages at local working copies of their docs.
// Relative override paths resolve against the current directory.
func (c *Config) ApplyLocalOverrides(overrides map[string]string) error {
	for id, p := range overrides {
		pkg, ok := c.Package(id)
		if !ok {
			return errors.NotFound("package "+id, c.path).WithContext("package", id)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.IO("resolve override", p, err)
		}
		pkg.Source = abs
	}
	return validateOutput(c)
}

package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

var packageIDPattern = regexp.MustCompile(`^[A-Za-z0-9+_-]+$`)

// Validate checks a normalized and defaulted configuration.
func Validate(c *Config) error {
	seen := make(map[string]bool, len(c.Packages))
	for i, p := range c.Packages {
		field := fmt.Sprintf("packages[%d]", i)
		if !packageIDPattern.MatchString(p.ID) {
			return errors.Validation(field+".id", "package id must match [A-Za-z0-9+_-]+").
				WithContext("package", p.ID)
		}
		if seen[p.ID] {
			return errors.Validation(field+".id", "duplicate package id "+p.ID).
				WithContext("package", p.ID)
		}
		seen[p.ID] = true
		if p.Source == "" {
			return errors.Validation(field+".source", "package source is required").
				WithContext("package", p.ID)
		}
		if p.EditURLTemplate != "" && !strings.Contains(p.EditURLTemplate, "{path}") {
			return errors.Validation(field+".edit_url_template", "template must contain {path}").
				WithContext("package", p.ID)
		}
	}

	if c.Watch.PollInterval != "" {
		d, err := time.ParseDuration(c.Watch.PollInterval)
		if err != nil || d <= 0 {
			return errors.Validation("watch.poll_interval", "poll interval must be a positive duration").
				WithContext("value", c.Watch.PollInterval)
		}
	}
	if c.Spellcheck.Enabled && c.Spellcheck.Dictionary == "" {
		return errors.Validation("spellcheck.dictionary", "a word list is required when spellcheck is enabled")
	}
	return validateOutput(c)
}

// validateOutput rejects an output directory that overlaps the docs
// directory or a package source. Writing or cleaning it would otherwise
// modify the sources.
func validateOutput(c *Config) error {
	if c.Site.Output == "" {
		return nil
	}
	out, err := absSlash(c.Site.Output)
	if err != nil {
		return err
	}
	check := func(field, dir string) error {
		if dir == "" {
			return nil
		}
		d, err := absSlash(dir)
		if err != nil {
			return err
		}
		if paths.IsWithin(out, d) || paths.IsWithin(d, out) {
			return errors.Validation("site.output", "output directory must not overlap "+field).
				WithContext("output", c.Site.Output).
				WithContext(field, dir)
		}
		return nil
	}
	if err := check("site.docs_dir", c.Site.DocsDir); err != nil {
		return err
	}
	for i, p := range c.Packages {
		if err := check(fmt.Sprintf("packages[%d].source", i), p.Source); err != nil {
			return err
		}
	}
	return nil
}

func absSlash(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.IO("resolve path", p, err)
	}
	return filepath.ToSlash(abs), nil
}

// PollInterval returns the parsed watch poll interval, zero when disabled.
func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Watch.PollInterval)
	return d
}

package config

import (
	"fmt"
	"sort"
	"strings"
)

// enum maps case-insensitive input onto a closed set of values.
type enum[T ~string] struct {
	values   map[string]T
	fallback T
}

func newEnum[T ~string](values map[string]T, fallback T) enum[T] {
	return enum[T]{values: values, fallback: fallback}
}

func (e enum[T]) lookup(raw string) (T, bool) {
	v, ok := e.values[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

func (e enum[T]) normalize(raw string) T {
	if v, ok := e.lookup(raw); ok {
		return v
	}
	return e.fallback
}

func (e enum[T]) keys() []string {
	out := make([]string, 0, len(e.values))
	for k := range e.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NormalizationResult lists the adjustments made while normalizing.
type NormalizationResult struct {
	Warnings []string
}

func (r *NormalizationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Normalize canonicalizes enumerations and trims identifiers. Unknown
// enumeration values fall back to their default with a warning.
func Normalize(c *Config) *NormalizationResult {
	res := &NormalizationResult{}

	normalizeEnum(res, "logging.level", &c.Logging.Level, logLevels)
	normalizeEnum(res, "logging.format", &c.Logging.Format, logFormats)

	for i := range c.Packages {
		p := &c.Packages[i]
		if trimmed := strings.TrimSpace(p.ID); trimmed != p.ID {
			res.warnf("trimmed whitespace from package id %q", p.ID)
			p.ID = trimmed
		}
		p.Source = strings.TrimSpace(p.Source)
		p.Directory = strings.Trim(strings.TrimSpace(p.Directory), "/")
	}
	return res
}

func normalizeEnum[T ~string](res *NormalizationResult, field string, v *T, e enum[T]) {
	if *v == "" {
		return
	}
	canonical, ok := e.lookup(string(*v))
	if !ok {
		res.warnf("unknown %s %q (valid: %s), using %q", field, *v, strings.Join(e.keys(), ", "), e.fallback)
		canonical = e.fallback
	}
	*v = canonical
}

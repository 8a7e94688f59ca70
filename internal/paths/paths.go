// Package paths canonicalises filesystem and URL paths used by the overlay
// builder, the edit URL resolver and the packager, and lists source trees.
//
// All functions operate on forward-slash paths. Backslashes are treated as
// separators regardless of the host OS so that packages authored on Windows
// land on the same destination paths as everywhere else.
package paths

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize replaces backslashes with forward slashes, NFC-normalises the
// result and collapses "." and ".." segments. It never fails and is idempotent.
// The empty path normalises to ".".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = norm.NFC.String(p)
	return path.Clean(p)
}

// Join computes a destination path for rel under prefix. The result never
// starts with "/" so it can be used as a key of a virtual file set.
func Join(prefix, rel string) string {
	joined := Normalize(prefix + "/" + rel)
	joined = strings.TrimLeft(joined, "/")
	if joined == "" {
		return "."
	}
	return joined
}

// Relative computes the normalised path of p relative to base.
func Relative(p, base string) (string, error) {
	p = Normalize(p)
	base = Normalize(base)

	if path.IsAbs(p) != path.IsAbs(base) {
		return "", fmt.Errorf("cannot make %q relative to %q: one path is absolute", p, base)
	}

	ps := segments(p)
	bs := segments(base)

	common := 0
	for common < len(ps) && common < len(bs) && ps[common] == bs[common] {
		common++
	}

	rest := bs[common:]
	for _, seg := range rest {
		if seg == ".." {
			return "", fmt.Errorf("cannot make %q relative to %q", p, base)
		}
	}

	out := make([]string, 0, len(rest)+len(ps)-common)
	for range rest {
		out = append(out, "..")
	}
	out = append(out, ps[common:]...)
	if len(out) == 0 {
		return ".", nil
	}
	return strings.Join(out, "/"), nil
}

// IsWithin reports whether p is base itself or lies below it.
func IsWithin(p, base string) bool {
	rel, err := Relative(p, base)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// HasExt reports whether p ends with ext, ignoring case.
func HasExt(p, ext string) bool {
	return strings.EqualFold(path.Ext(p), ext)
}

func segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

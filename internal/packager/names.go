package packager

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

var (
	namePattern           = regexp.MustCompile(`^[A-Za-z0-9+_-]+$`)
	moduleRestrictedChars = regexp.MustCompile(`[^a-z0-9_]`)
	nameRestrictedChars   = regexp.MustCompile(`[^A-Za-z0-9+_-]`)
)

// ValidateName rejects package names outside [A-Za-z0-9+_-].
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.Validation("name", "package name must match [A-Za-z0-9+_-]+").
			WithContext("name", name)
	}
	return nil
}

// ModuleName is the importable module identifier for a package name:
// lower case with every character outside [a-z0-9_] replaced by "_".
func ModuleName(name string) string {
	return moduleRestrictedChars.ReplaceAllString(strings.ToLower(name), "_")
}

// DistributionName turns free text, such as a directory name, into a valid
// package name by replacing every disallowed character with "-".
func DistributionName(s string) string {
	return nameRestrictedChars.ReplaceAllString(s, "-")
}

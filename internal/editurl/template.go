// Package editurl resolves the "edit this page" URL of a rendered page back to
// the source file of the documentation package that contributed it.
package editurl

import (
	"strings"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

// Placeholder is substituted with the page path relative to its package.
const Placeholder = "{path}"

// Template is an edit URL template such as
// https://github.com/org/repo/edit/main/docs/{path}.
type Template string

// ParseTemplate validates s.
func ParseTemplate(s string) (Template, error) {
	t := Template(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports a template without a placeholder.
func (t Template) Validate() error {
	if !strings.Contains(string(t), Placeholder) {
		return errors.Validation("edit_url_template", "template must contain "+Placeholder).
			WithContext("template", string(t))
	}
	return nil
}

// Expand substitutes path into every placeholder.
func (t Template) Expand(path string) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(t), Placeholder, path), nil
}

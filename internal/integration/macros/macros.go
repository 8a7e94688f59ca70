// Package macros renders template expressions in pages that opt in with
// "render_macros: true". It provides the package_link filter, which links to
// a page of another documentation package by package id.
package macros

import (
	"bytes"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

const (
	// Name is the integration name.
	Name = "macros"
	// MetaRenderMacros enables rendering for a page.
	MetaRenderMacros = "render_macros"
)

// Directories resolves a package id to its destination directory.
type Directories interface {
	Directory(id string) (string, bool)
}

// Integration renders macros.
type Integration struct {
	packages Directories
}

var _ integration.Integration = (*Integration)(nil)

func New(packages Directories) *Integration {
	return &Integration{packages: packages}
}

func (m *Integration) Name() string { return Name }

// PackageLink returns the site URL of value inside package id.
func (m *Integration) PackageLink(value, id string) (string, error) {
	dir, ok := m.packages.Directory(id)
	if !ok {
		return "", errors.NotFound("package "+id, value).WithContext("package", id)
	}
	target := paths.Join(dir, value)
	if strings.HasSuffix(value, "/") && target != "." {
		target += "/"
	}
	if target == "." {
		return "/", nil
	}
	return "/" + target, nil
}

// Enabled reports whether doc opted in to macro rendering.
func Enabled(doc *document.Document) bool {
	if doc == nil {
		return false
	}
	on, ok := doc.Bool(MetaRenderMacros)
	return ok && on
}

// Render expands the template expressions of doc's content in place. The
// page's metadata is available as .page.
func (m *Integration) Render(page string, doc *document.Document) error {
	funcs := template.FuncMap{
		// Used as a filter: {{ "guide/setup.md" | package_link "a" }}.
		"package_link": func(id, value string) (string, error) {
			return m.PackageLink(value, id)
		},
	}
	tpl, err := template.New(page).Funcs(funcs).Option("missingkey=zero").Parse(doc.Content)
	if err != nil {
		return errors.Wrap(err, errors.CategoryParse, errors.SeverityFatal, "malformed macro").
			WithContext("path", page)
	}
	var buf bytes.Buffer
	data := map[string]any{"page": doc.Meta, "path": page}
	if err := tpl.Execute(&buf, data); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, errors.SeverityFatal, "macro failed").
			WithContext("path", page)
	}
	doc.Content = buf.String()
	return nil
}

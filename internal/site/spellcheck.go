package site

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/integration/spellcheck"
	"git.home.luguber.info/inful/partialdocs/internal/overlay"
)

// Spellcheck builds the site, renders every page and reports unknown words.
func (s *Site) Spellcheck(ctx context.Context) ([]spellcheck.Misspelling, error) {
	if s.spellcheck == nil {
		return nil, errors.Validation("spellcheck", "spellcheck is not enabled")
	}
	files, _, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	filters := integration.Find[integration.PageFilter](s.integrations)
	md := goldmark.New()
	var out []spellcheck.Misspelling
	for _, e := range files.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.Kind != overlay.KindDocument || skipped(filters, e) {
			continue
		}
		var html bytes.Buffer
		if err := md.Convert([]byte(e.Doc.Content), &html); err != nil {
			return nil, errors.Parse(e.Path, err)
		}
		found, err := s.spellcheck.Check(e.Path, html.Bytes())
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func skipped(filters []integration.PageFilter, e *overlay.Entry) bool {
	for _, f := range filters {
		if f.Skip(e.Path, e.Doc) {
			return true
		}
	}
	return false
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/site"
)

// SpellcheckCmd implements the 'spellcheck' command.
type SpellcheckCmd struct {
	Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Strict bool   `help:"Fail when unknown words are found"`
}

func (c *SpellcheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	cfg.Spellcheck.Enabled = true
	if cfg.Spellcheck.Dictionary == "" {
		return errors.Validation("spellcheck.dictionary", "a word list is required for spellcheck")
	}

	s, err := site.New(cfg, site.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	found, err := s.Spellcheck(context.Background())
	if err != nil {
		return err
	}

	if c.Format == "json" {
		data, err := json.MarshalIndent(found, "", "  ")
		if err != nil {
			return errors.InternalError("encode misspellings", err)
		}
		_, _ = fmt.Fprintln(g.Out, string(data))
	} else {
		for _, m := range found {
			_, _ = fmt.Fprintf(g.Out, "%s: %s (%d)\n", m.Page, m.Word, m.Count)
		}
	}
	if c.Strict && len(found) > 0 {
		return errors.Validation("spellcheck", fmt.Sprintf("%d unknown word(s)", len(found)))
	}
	return nil
}

package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/site"
)

// EditURLCmd implements the 'edit-url' command.
type EditURLCmd struct {
	Pages []string `arg:"" help:"Page paths relative to the site docs root"`
}

func (e *EditURLCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	s, err := site.New(cfg, site.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	missing := 0
	for _, page := range e.Pages {
		url, ok, err := s.EditURL(context.Background(), page)
		if err != nil {
			return err
		}
		if !ok {
			missing++
			g.Logger.Debug("No edit URL", logfields.Path(page))
			_, _ = fmt.Fprintf(g.Out, "%s\t-\n", page)
			continue
		}
		_, _ = fmt.Fprintf(g.Out, "%s\t%s\n", page, url)
	}
	if missing == len(e.Pages) {
		return errors.NotFound("edit URL", e.Pages[0])
	}
	return nil
}

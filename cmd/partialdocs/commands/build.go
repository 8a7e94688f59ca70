package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the merged docs tree (overrides site.output)"`
	Clean  bool   `help:"Remove the output directory before writing"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Site.Output = b.Output
	}
	if b.Clean {
		cfg.Site.Clean = true
	}

	s, err := site.New(cfg, site.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			g.Logger.Warn("Cleanup failed", logfields.Error(err))
		}
	}()

	res, err := s.Write(context.Background())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Wrote %d files to %s (%d packages, %d merged, %d redirects)\n",
		len(res.Changes.Added)+len(res.Changes.Modified), res.Output,
		res.Report.Packages, res.Report.Merged, res.Redirects)
	return nil
}

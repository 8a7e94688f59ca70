package commands

import (
	"fmt"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/manifest"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Archive string `arg:"" help:"Package archive to verify"`
	Format  string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
}

func (v *VerifyCmd) Run(g *Global, _ *CLI) error {
	report, err := manifest.Verify(v.Archive)
	if err != nil {
		return err
	}

	if v.Format == "json" {
		data, err := report.ToJSON()
		if err != nil {
			return errors.InternalError("encode report", err)
		}
		_, _ = fmt.Fprintln(g.Out, string(data))
	} else {
		for _, p := range report.Problems {
			_, _ = fmt.Fprintf(g.Out, "%s: %s\n", p.Kind, p.Path)
		}
		if report.OK() {
			_, _ = fmt.Fprintf(g.Out, "%s: %d files OK\n", report.Archive, report.Checked)
		}
	}
	return report.Err()
}

package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/packager"
)

// PackageCmd implements the 'package' command.
type PackageCmd struct {
	DocsDir            string            `name:"docs-dir" default:"." help:"Folder with documentation"`
	OutputDir          string            `name:"output-dir" default:"." help:"Folder to write the package archive to"`
	SiteDir            string            `name:"site-dir" help:"Path in the target site receiving the docs (defaults to the docs folder name)"`
	PackageName        string            `name:"package-name" help:"Package name (defaults to the normalized site dir)"`
	PackageVersion     string            `name:"package-version" required:"" help:"Package version"`
	PackageDescription string            `name:"package-description" help:"Package description"`
	Title              string            `help:"Title stamped on the package index page"`
	EditURLTemplate    string            `name:"edit-url-template" help:"Edit URL template with {path} as placeholder for the page path"`
	Exclude            []string          `short:"x" sep:"none" help:"Glob of files to leave out (repeatable)"`
	ResourceDir        string            `name:"resource-dir" default:"docs" help:"Subdirectory of the module receiving the docs"`
	Requirements       string            `help:"Requirements file, as given or relative to the docs folder"`
	NoSelfDependency   bool              `name:"no-self-dependency" help:"Do not depend on this tool"`
	Var                map[string]string `short:"V" help:"Extra template variable (repeatable KEY=VALUE)"`
}

// Options converts the flags into packager options.
func (p *PackageCmd) Options() (packager.Options, error) {
	docsDir, err := filepath.Abs(p.DocsDir)
	if err != nil {
		return packager.Options{}, errors.IO("resolve docs directory", p.DocsDir, err)
	}
	siteDir := p.SiteDir
	if siteDir == "" {
		siteDir = filepath.Base(docsDir)
	}
	name := p.PackageName
	if name == "" {
		name = packager.DistributionName(filepath.Base(siteDir))
	}
	vars := make(map[string]any, len(p.Var))
	for k, v := range p.Var {
		vars[k] = v
	}
	return packager.Options{
		Name:              name,
		Version:           p.PackageVersion,
		Description:       p.PackageDescription,
		SourceDir:         docsDir,
		OutputDir:         p.OutputDir,
		Excludes:          p.Exclude,
		ResourceDir:       p.ResourceDir,
		Requirements:      p.Requirements,
		AddSelfDependency: !p.NoSelfDependency,
		ExtraVars:         vars,
		Directory:         siteDir,
		EditURLTemplate:   p.EditURLTemplate,
		Title:             p.Title,
	}, nil
}

func (p *PackageCmd) Run(g *Global, _ *CLI) error {
	opts, err := p.Options()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := packager.New(packager.WithLogger(g.Logger)).Pack(ctx, opts)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Out, res.Archive)
	return nil
}

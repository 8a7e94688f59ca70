package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/partialdocs/internal/config"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "PARTIALDOCS_LOG_LEVEL"

// Global is shared by every command.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing command output.
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"partialdocs.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`
	LocalDocs []string         `name:"local-docs" sep:"none" placeholder:"ID=PATH" help:"Use a local docs folder for a package (repeatable)"`

	Build      BuildCmd      `cmd:"" help:"Overlay all documentation packages and write the merged docs tree"`
	Watch      WatchCmd      `cmd:"" help:"Build, then rebuild whenever a documentation source changes"`
	Package    PackageCmd    `cmd:"" help:"Create a documentation package archive from a docs folder"`
	Verify     VerifyCmd     `cmd:"" help:"Check a documentation package archive against its RECORD"`
	EditURL    EditURLCmd    `cmd:"" name:"edit-url" help:"Print the edit URL of a page of the merged site"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
	Spellcheck SpellcheckCmd `cmd:"" help:"Report unknown words in the merged site"`
}

// AfterApply runs after flag parsing; sets up logging before any
// configuration is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	if g.Out == nil {
		g.Out = os.Stdout
	}
	g.Logger = newLogger(c.level(""), config.LogFormatText)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig loads the configuration, applies --local-docs and reconfigures
// logging from the logging section.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if len(c.LocalDocs) > 0 {
		overrides := make(map[string]string, len(c.LocalDocs))
		for _, s := range c.LocalDocs {
			id, p, err := config.ParseOverride(s)
			if err != nil {
				return nil, err
			}
			overrides[id] = p
		}
		if err := cfg.ApplyLocalOverrides(overrides); err != nil {
			return nil, err
		}
	}
	g.Logger = newLogger(c.level(cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// level picks -v over PARTIALDOCS_LOG_LEVEL over the configured level.
func (c *CLI) level(configured config.LogLevel) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		return config.NormalizeLogLevel(env).SlogLevel()
	}
	if configured != "" {
		return configured.SlogLevel()
	}
	return slog.LevelInfo
}

func newLogger(level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

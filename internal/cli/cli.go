package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/walletrunner/internal/config"
	"github.com/semmy-space/walletrunner/internal/output"
)

// CLI is the root command structure
type CLI struct {
	Globals

	Query   QueryCmd   `cmd:"" help:"Resolve a query and list matches"`
	Run     RunCmd     `cmd:"" help:"Resolve a query and execute a match"`
	Show    ShowCmd    `cmd:"" help:"Show all fields of an entry"`
	Edit    EditCmd    `cmd:"" help:"Add or edit an entry"`
	Rm      RmCmd      `cmd:"" help:"Remove an entry"`
	Folders FoldersCmd `cmd:"" help:"List wallet folders"`
	Shell   ShellCmd   `cmd:"" help:"Interactive launcher: type queries, pick matches by number"`
	Config  ConfigCmd  `cmd:"" help:"Configuration commands"`
	Version VersionCmd `cmd:"" help:"Show version information"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// AfterApply runs once flags are parsed.
// It loads config, applies flag overrides, creates the formatter and logger,
// and binds the App for commands.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return &output.CLIError{
			Message:  err.Error(),
			ExitCode: output.ExitConfigError,
			Hint:     "Check " + config.ConfigPath(),
		}
	}

	// Flag/env > config file > defaults
	if c.Backend != "" {
		cfg.Backend = c.Backend
	}
	if c.Wallet != "" {
		cfg.Wallet = c.Wallet
	}
	if c.Clipboard != "" {
		cfg.Clipboard = c.Clipboard
	}

	mode := c.ResolvedOutput(cfg.DefaultOutput)
	app := NewApp(cfg, &c.Globals, output.New(mode), newLogger(os.Stderr, c.Verbose))
	app.Mode = mode

	ctx.Bind(cfg)
	ctx.Bind(&c.Globals)
	ctx.Bind(app)
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Reset a configuration value to its default"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	fmt.Fprintln(ctx.Stdout, "walletrunner version "+version)
	return nil
}

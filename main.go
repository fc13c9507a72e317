package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/walletrunner/internal/cli"
	"github.com/semmy-space/walletrunner/internal/output"
)

var (
	version = "dev"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("walletrunner"),
		kong.Description("Search, copy and add wallet credentials from launcher-style queries"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Answers shell completion requests and exits when COMP_LINE is set
	var opts []kongplete.Option
	for name, predictor := range cli.Predictors() {
		opts = append(opts, kongplete.WithPredictor(name, predictor))
	}
	kongplete.Complete(parser, opts...)

	ctx, err := parser.Parse(os.Args[1:])
	var cliErr *output.CLIError
	if err != nil && !errors.As(err, &cliErr) {
		parser.FatalIfErrorf(err)
	}
	if err == nil {
		// Run command with bound dependencies
		err = ctx.Run()
	}
	if err != nil {
		exit(err)
	}
}

// exit reports err and exits with its code.
func exit(err error) {
	output.ExitWithError(output.New("plain"), err)

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode)
	}
	os.Exit(output.ExitGeneral)
}

package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	Output    string `help:"Output format" default:"" enum:"json,plain,rich,auto," short:"o" env:"WRUN_OUTPUT"`
	Backend   string `help:"Wallet backend" default:"" enum:"auto,keyring,file,disabled," env:"WRUN_BACKEND"`
	Wallet    string `help:"Wallet name" env:"WRUN_WALLET"`
	Clipboard string `help:"Clipboard sink" default:"" enum:"auto,osc52,command," env:"WRUN_CLIPBOARD"`
	Verbose   bool   `help:"Verbose output" short:"v" env:"WRUN_VERBOSE"`
	NoInput   bool   `help:"Disable interactive prompts (fail instead)" env:"WRUN_NO_INPUT"`
	Force     bool   `help:"Skip confirmation prompts for destructive operations" env:"WRUN_FORCE"`
}

// ResolvedOutput returns the effective output mode.
// An empty flag falls back to the configured default; "auto" detects TTY:
// if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput(configured string) string {
	mode := g.Output
	if mode == "" {
		mode = configured
	}
	if mode != "" && mode != "auto" {
		return mode
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}
	return "plain"
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/semmy-space/walletrunner/internal/output"
	"github.com/semmy-space/walletrunner/internal/runner"
)

// ShellCmd implements the interactive launcher
type ShellCmd struct{}

const shellHelp = `Type a query to list matches, then:
  N      run match N
  o N    show all fields of match N
  :q     quit (waits for pending clipboard clears)`

// Run executes the shell command
func (cmd *ShellCmd) Run(app *App) error {
	r, err := app.Runner()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Fprintln(app.Err, shellHelp)
	app.Formatter.PrintHint(syntaxHint(r))

	var matches []runner.Match
	for {
		fmt.Fprint(app.Err, "walletrunner> ")
		line, err := app.reader().ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil
		line = strings.TrimSpace(line)

		switch {
		case line == ":q" || (eof && line == ""):
			if eof {
				fmt.Fprintln(app.Err)
			}
			r.Wait()
			return nil
		case line == "":
		case line == "?" || line == ":h":
			fmt.Fprintln(app.Err, shellHelp)
		default:
			matches = app.shellLine(r, line, matches)
		}

		if eof {
			r.Wait()
			return nil
		}
	}
}

// shellLine handles one line and returns the matches to pick from next.
func (app *App) shellLine(r *runner.Runner, line string, matches []runner.Match) []runner.Match {
	action := ""
	pick := line
	if rest, ok := strings.CutPrefix(line, "o "); ok {
		action = runner.ActionOverview
		pick = strings.TrimSpace(rest)
	}

	if n, err := strconv.Atoi(pick); err == nil {
		if n < 1 || n > len(matches) {
			app.Formatter.PrintError(fmt.Errorf("no match %d", n))
			return matches
		}
		if err := app.execute(r, matches[n-1], action); err != nil {
			app.printCLIError(err)
		}
		return matches
	}

	found, err := r.Match(line)
	if err != nil {
		app.printCLIError(cliError(err))
		return nil
	}
	if len(found) == 0 {
		app.Formatter.PrintHint(syntaxHint(r))
		return nil
	}
	if err := app.printMatches(r, found); err != nil {
		app.Formatter.PrintError(err)
	}
	return found
}

func (app *App) printCLIError(err error) {
	output.ExitWithError(app.Formatter, err)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/semmy-space/walletrunner/internal/output"
	"github.com/semmy-space/walletrunner/internal/runner"
)

// matchRow is one printed match
type matchRow struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Folder  string   `json:"folder"`
	Action  string   `json:"action"`
	Actions []string `json:"actions,omitempty"`
}

var matchColumns = []output.Column{
	{Name: "#", Key: "Index"},
	{Name: "Match", Key: "Text", Width: 48},
	{Name: "Folder", Key: "Folder", Width: 24},
	{Name: "Action", Key: "Action"},
}

// QueryCmd implements the query command
type QueryCmd struct {
	Query []string `arg:"" optional:"" help:"Query text, e.g. \"kwallet git\" or \"newsite kwallet-add\""`
}

// Run executes the query command
func (cmd *QueryCmd) Run(app *App) error {
	r, err := app.Runner()
	if err != nil {
		return err
	}
	defer app.Close()

	matches, err := r.Match(strings.Join(cmd.Query, " "))
	if err != nil {
		return cliError(err)
	}

	if len(matches) == 0 {
		app.Formatter.PrintHint(syntaxHint(r))
	}
	return app.printMatches(r, matches)
}

// RunCmd implements the run command
type RunCmd struct {
	Query    []string `arg:"" help:"Query text"`
	Pick     int      `help:"Which match to execute (1-based)" default:"1" short:"p"`
	Overview bool     `help:"Show all fields instead of copying"`
	NoWait   bool     `help:"Exit without waiting to clear the clipboard" name:"no-wait"`
}

// Run executes the run command
func (cmd *RunCmd) Run(app *App) error {
	r, err := app.Runner()
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(cmd.Query, " ")
	matches, err := r.Match(query)
	if err != nil {
		return cliError(err)
	}
	if len(matches) == 0 {
		return &output.CLIError{
			Message:  fmt.Sprintf("No matches for %q", query),
			ExitCode: output.ExitNotFound,
			Hint:     syntaxHint(r),
		}
	}
	if cmd.Pick < 1 || cmd.Pick > len(matches) {
		return &output.CLIError{
			Message:  fmt.Sprintf("Match %d out of range (1-%d)", cmd.Pick, len(matches)),
			ExitCode: output.ExitUsage,
		}
	}

	action := ""
	if cmd.Overview {
		action = runner.ActionOverview
	}
	if err := app.execute(r, matches[cmd.Pick-1], action); err != nil {
		return err
	}

	if cmd.NoWait {
		fmt.Fprintf(app.Err, "Warning: clipboard will not be cleared automatically\n")
		return nil
	}
	r.Wait()
	return nil
}

// execute runs a match and presents whatever surface the result asks for.
func (app *App) execute(r *runner.Runner, m runner.Match, action string) error {
	res, err := r.Run(m, action)
	if err != nil {
		return cliError(err)
	}

	switch res.Kind {
	case runner.ResultCopied:
		fmt.Fprintf(app.Err, "Copied %s to clipboard, clearing in %s\n", m.Text, res.ClearAfter)
		return nil
	case runner.ResultReveal:
		return app.printView(res.View, false)
	case runner.ResultEditor:
		return app.editEntry("", res.Seed, nil, res.Existing)
	default:
		return fmt.Errorf("unexpected result kind %d", res.Kind)
	}
}

func (app *App) printMatches(r *runner.Runner, matches []runner.Match) error {
	rows := make([]matchRow, 0, len(matches))
	for i, m := range matches {
		row := matchRow{
			Index:  i + 1,
			Text:   m.Text,
			Folder: folderLabel(m.Folder),
			Action: m.ActionID(),
		}
		for _, a := range r.Actions(m) {
			row.Actions = append(row.Actions, a.ID)
		}
		if m.Kind != runner.KindEntry {
			row.Folder = ""
		}
		rows = append(rows, row)
	}
	return app.Formatter.PrintList(rows, matchColumns)
}

func syntaxHint(r *runner.Runner) string {
	parts := make([]string, 0, 2)
	for _, s := range r.Syntaxes() {
		parts = append(parts, fmt.Sprintf("%q %s", s.Example, strings.ToLower(s.Description[:1])+s.Description[1:]))
	}
	return "Query forms: " + strings.Join(parts, "; ")
}

// folderLabel names the unnamed default folder for display.
func folderLabel(folder string) string {
	if folder == "" {
		return "(default)"
	}
	return folder
}

package cli

import (
	"fmt"
	"strings"

	"github.com/semmy-space/walletrunner/internal/output"
	"github.com/semmy-space/walletrunner/internal/runner"
	"github.com/semmy-space/walletrunner/internal/wallet"
)

const maskedValue = "********"

var fieldColumns = []output.Column{
	{Name: "Field", Key: "Name", Width: 24},
	{Name: "Value", Key: "Value"},
}

// ShowCmd implements the show command
type ShowCmd struct {
	Entry  string `arg:"" help:"Entry name" predictor:"entry"`
	Folder string `help:"Folder holding the entry (default folder if empty)" short:"f" predictor:"folder"`
	Copy   string `help:"Copy this field to the clipboard instead of printing (not auto-cleared)" short:"c"`
	Mask   bool   `help:"Mask field values"`
}

// Run executes the show command
func (cmd *ShowCmd) Run(app *App) error {
	r, err := app.Runner()
	if err != nil {
		return err
	}
	defer app.Close()

	view, err := app.lookup(r, cmd.Folder, cmd.Entry)
	if err != nil {
		return err
	}

	if cmd.Copy != "" {
		for _, f := range view.Fields {
			if f.Name == cmd.Copy {
				if err := r.CopyField(f.Value); err != nil {
					return cliError(err)
				}
				fmt.Fprintf(app.Err, "Copied %s of %s to clipboard\n", f.Name, view.Entry)
				return nil
			}
		}
		return &output.CLIError{
			Message:  fmt.Sprintf("Entry %s has no field %q", view.Entry, cmd.Copy),
			ExitCode: output.ExitNotFound,
			Hint:     "Fields: " + strings.Join(fieldNames(view), ", "),
		}
	}

	return app.printView(view, cmd.Mask)
}

// lookup reads an entry view, reporting a missing entry as not found.
func (app *App) lookup(r *runner.Runner, folder, entry string) (*runner.EntryView, error) {
	view, err := r.View(folder, entry)
	if err != nil {
		return nil, cliError(err)
	}
	if !r.Store().HasEntry(entry) {
		return nil, &output.CLIError{
			Message:  fmt.Sprintf("Entry not found: %s in folder %s", entry, folderLabel(folder)),
			ExitCode: output.ExitNotFound,
			Hint:     "Try: walletrunner query kwallet " + entry,
		}
	}
	return view, nil
}

// printView renders the entry viewer.
func (app *App) printView(view *runner.EntryView, mask bool) error {
	shown := *view
	if mask {
		shown.Fields = make([]runner.Field, len(view.Fields))
		for i, f := range view.Fields {
			shown.Fields[i] = runner.Field{Name: f.Name, Value: maskedValue}
		}
	}

	if app.Mode == "json" {
		return app.Formatter.Print(shown)
	}

	fmt.Fprintf(app.Err, "%s / %s (%s)\n", folderLabel(view.Folder), view.Entry, view.Type)
	if view.Type == wallet.Unknown {
		app.Formatter.PrintHint("Entry type is not supported; no fields to show")
	}
	return app.Formatter.PrintList(shown.Fields, fieldColumns)
}

func fieldNames(view *runner.EntryView) []string {
	names := make([]string, 0, len(view.Fields))
	for _, f := range view.Fields {
		names = append(names, f.Name)
	}
	return names
}

// RmCmd implements the rm command
type RmCmd struct {
	Entry  string `arg:"" help:"Entry name" predictor:"entry"`
	Folder string `help:"Folder holding the entry (default folder if empty)" short:"f" predictor:"folder"`
}

// Run executes the rm command
func (cmd *RmCmd) Run(app *App) error {
	w, err := app.Wallet()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := w.SetFolder(cmd.Folder); err != nil {
		return cliError(err)
	}
	if !w.HasEntry(cmd.Entry) {
		return &output.CLIError{
			Message:  fmt.Sprintf("Entry not found: %s in folder %s", cmd.Entry, folderLabel(cmd.Folder)),
			ExitCode: output.ExitNotFound,
		}
	}

	if !app.Globals.Force {
		ok, err := app.confirm(fmt.Sprintf("Remove %s from %s?", cmd.Entry, folderLabel(cmd.Folder)))
		if err != nil {
			return err
		}
		if !ok {
			return &output.CLIError{Message: "Aborted", ExitCode: output.ExitGeneral}
		}
	}

	if err := w.RemoveEntry(cmd.Entry); err != nil {
		return cliError(err)
	}
	fmt.Fprintf(app.Err, "Removed %s\n", cmd.Entry)
	return nil
}

// FoldersCmd implements the folders command
type FoldersCmd struct{}

type folderRow struct {
	Folder  string `json:"folder"`
	Entries int    `json:"entries"`
}

// Run executes the folders command
func (cmd *FoldersCmd) Run(app *App) error {
	w, err := app.Wallet()
	if err != nil {
		return err
	}
	defer app.Close()

	folders, err := w.FolderList()
	if err != nil {
		return cliError(err)
	}

	rows := make([]folderRow, 0, len(folders))
	for _, f := range folders {
		row := folderRow{Folder: folderLabel(f)}
		if err := w.SetFolder(f); err == nil {
			if entries, err := w.EntryList(); err == nil {
				row.Entries = len(entries)
			}
		}
		rows = append(rows, row)
	}

	return app.Formatter.PrintList(rows, []output.Column{
		{Name: "Folder", Key: "Folder"},
		{Name: "Entries", Key: "Entries"},
	})
}

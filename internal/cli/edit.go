package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/semmy-space/walletrunner/internal/output"
	"github.com/semmy-space/walletrunner/internal/wallet"
)

// EditCmd implements the edit command
type EditCmd struct {
	Entry    string   `arg:"" optional:"" help:"Entry name (prompted if empty)" predictor:"entry"`
	Folder   string   `help:"Folder for the entry, created if missing" short:"f" predictor:"folder"`
	Field    []string `help:"Map field as key=value (repeatable)" short:"F" sep:"none"`
	Password string   `help:"Store a password entry with this secret (prefer the prompt)" env:"WRUN_ENTRY_PASSWORD"`
}

// Run executes the edit command
func (cmd *EditCmd) Run(app *App) error {
	var fields map[string]string
	if cmd.Password != "" && len(cmd.Field) > 0 {
		return &output.CLIError{
			Message:  "Use either --password or --field, not both",
			ExitCode: output.ExitUsage,
		}
	}
	if cmd.Password != "" {
		fields = map[string]string{passwordField: cmd.Password}
	}
	if len(cmd.Field) > 0 {
		parsed, err := parseFields(cmd.Field)
		if err != nil {
			return err
		}
		fields = parsed
	}

	defer app.Close()
	return app.editEntry(cmd.Folder, cmd.Entry, fields, false)
}

// passwordField is the field name a password entry is shown and set under.
const passwordField = "password"

// editEntry writes an entry, prompting for whatever is missing. A nil
// fields map means the secret is read interactively.
func (app *App) editEntry(folder, name string, fields map[string]string, existing bool) error {
	w, err := app.Wallet()
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name, err = app.prompt("Entry name: ")
		if err != nil {
			return err
		}
		if name == "" {
			return &output.CLIError{Message: "Entry name is required", ExitCode: output.ExitUsage}
		}
	}

	if err := w.SetFolder(folder); err != nil {
		if !errors.Is(err, wallet.ErrNotFound) {
			return cliError(err)
		}
		if err := w.CreateFolder(folder); err != nil {
			return cliError(err)
		}
		if err := w.SetFolder(folder); err != nil {
			return cliError(err)
		}
		app.Logger.Debug("created folder", "folder", folder)
	}
	existing = existing || w.HasEntry(name)

	if fields == nil {
		fields, err = app.readSecret(w, name)
		if err != nil {
			return err
		}
	}

	if secret, ok := fields[passwordField]; ok && len(fields) == 1 && w.EntryType(name) != wallet.Map {
		err = w.WritePassword(name, secret)
	} else {
		err = w.WriteMap(name, fields)
	}
	if err != nil {
		return cliError(err)
	}

	if existing {
		fmt.Fprintf(app.Err, "Updated %s in %s\n", name, folderLabel(folder))
	} else {
		fmt.Fprintf(app.Err, "Added %s to %s\n", name, folderLabel(folder))
	}
	return nil
}

// readSecret prompts for a password, or for map fields when the entry
// already is a map or the password is left empty.
func (app *App) readSecret(w *wallet.Wallet, name string) (map[string]string, error) {
	if w.EntryType(name) != wallet.Map {
		secret, err := app.promptSecret(fmt.Sprintf("Password for %s (empty to enter fields): ", name))
		if err != nil {
			return nil, err
		}
		if secret != "" {
			return map[string]string{passwordField: secret}, nil
		}
	}

	fmt.Fprintf(app.Err, "Enter fields as key=value, empty line to finish\n")
	var lines []string
	for {
		line, err := app.prompt("> ")
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, &output.CLIError{Message: "Nothing to store", ExitCode: output.ExitUsage}
	}
	return parseFields(lines)
}

// parseFields parses key=value pairs. Later keys override earlier ones.
func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &output.CLIError{
				Message:  fmt.Sprintf("Invalid field %q", pair),
				ExitCode: output.ExitUsage,
				Hint:     "Fields are written as key=value",
			}
		}
		fields[key] = value
	}
	return fields, nil
}

// prompt reads one trimmed line. io.EOF is returned only when nothing
// was read.
func (app *App) prompt(label string) (string, error) {
	if app.Globals.NoInput {
		return "", &output.CLIError{
			Message:  "Input required but --no-input is set",
			ExitCode: output.ExitUsage,
		}
	}
	fmt.Fprint(app.Err, label)
	line, err := app.reader().ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a line without echo when stdin is a terminal.
func (app *App) promptSecret(label string) (string, error) {
	f, ok := app.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		line, err := app.prompt(label)
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return line, err
	}
	if app.Globals.NoInput {
		return "", &output.CLIError{
			Message:  "Input required but --no-input is set",
			ExitCode: output.ExitUsage,
		}
	}

	fmt.Fprint(app.Err, label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(app.Err)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// confirm asks a yes/no question, defaulting to no.
func (app *App) confirm(question string) (bool, error) {
	answer, err := app.prompt(question + " [y/N] ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

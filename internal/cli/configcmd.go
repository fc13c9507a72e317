package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/semmy-space/walletrunner/internal/config"
	"github.com/semmy-space/walletrunner/internal/output"
)

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., search_prefix, clear_delay)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(app *App) error {
	value, err := app.Config.Get(cmd.Key)
	if err != nil {
		return unknownKey(cmd.Key, output.ExitNotFound)
	}

	fmt.Fprintln(app.Out, value)
	return nil
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(app *App) error {
	if _, err := app.Config.Get(cmd.Key); err != nil {
		return unknownKey(cmd.Key, output.ExitUsage)
	}

	if err := app.Config.Set(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  err.Error(),
			ExitCode: output.ExitUsage,
		}
	}

	if cmd.Key == "add_marker" && strings.ContainsAny(cmd.Value, " \t") {
		fmt.Fprintf(app.Err, "Note: add_marker contains whitespace and can only match at the very end of a query.\n")
	}

	if err := app.Config.Save(); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to save config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(app.Err, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to reset"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(app *App) error {
	if err := app.Config.Unset(cmd.Key); err != nil {
		return unknownKey(cmd.Key, output.ExitUsage)
	}

	if err := app.Config.Save(); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to save config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(app.Err, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

// configItem is one row of config list
type configItem struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Allowed string `json:"allowed,omitempty"`
}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(app *App) error {
	keys := config.Keys()
	items := make([]configItem, 0, len(keys))
	for _, key := range keys {
		value, _ := app.Config.Get(key)
		items = append(items, configItem{
			Key:     key,
			Value:   value,
			Allowed: strings.Join(config.ValidValues(key), ", "),
		})
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
		{Name: "Allowed", Key: "Allowed"},
	}

	return app.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(app *App) error {
	path := config.ConfigPath()

	fmt.Fprintln(app.Out, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(app.Err, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(app.Err, "(file exists)\n")
	}

	return nil
}

func unknownKey(key string, code int) error {
	return &output.CLIError{
		Message:  fmt.Sprintf("Unknown config key: %s", key),
		ExitCode: code,
		Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
	}
}

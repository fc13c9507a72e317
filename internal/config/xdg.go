package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the XDG directories.
const AppName = "walletrunner"

// ConfigDir returns the XDG-compliant config directory
// Typically ~/.config/walletrunner/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory holding file wallets
// Typically ~/.local/share/walletrunner/ on Linux
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

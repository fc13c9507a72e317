package wallet

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// Backend names accepted by Open.
const (
	BackendAuto     = "auto"
	BackendKeyring  = "keyring"
	BackendFile     = "file"
	BackendDisabled = "disabled"
)

// Options selects and configures the wallet backend.
type Options struct {
	Backend  string // auto, keyring, file or disabled
	Name     string // wallet name, "default" when empty
	FilePath string // file backend path, DefaultFilePath(Name) when empty
	Password string // file backend password, machine key when empty
}

// Open opens a wallet using the platform-appropriate backend.
// "auto" tries the OS keyring first and falls back to the encrypted file if
// it is unavailable, detecting WSL and headless environments up front.
func Open(opts Options) (*Wallet, error) {
	path := opts.FilePath
	if path == "" {
		path = DefaultFilePath(opts.Name)
	}

	switch opts.Backend {
	case BackendDisabled:
		return Disabled(), nil
	case BackendKeyring:
		return OpenKeyring(opts.Name)
	case BackendFile:
		w, err := OpenFile(path, opts.Password)
		if err != nil {
			return nil, err
		}
		markWarningsDone()
		return w, nil
	case "", BackendAuto:
	default:
		return nil, fmt.Errorf("unknown wallet backend: %s", opts.Backend)
	}

	// WSL and headless environments can't use keyring reliably
	if IsWSL() || IsHeadless() {
		warnOnce("Detected WSL/headless environment, using encrypted file storage")
		w, err := OpenFile(path, opts.Password)
		if err != nil {
			return nil, err
		}
		markWarningsDone()
		return w, nil
	}

	w, err := OpenKeyring(opts.Name)
	if err != nil {
		warnOnce(fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
		fw, ferr := OpenFile(path, opts.Password)
		if ferr != nil {
			return nil, ferr
		}
		markWarningsDone()
		return fw, nil
	}
	return w, nil
}

// warningShown checks if the file-store warning has already been shown.
// Uses a marker file in the data directory to avoid repeating on every command.
func warningShown() bool {
	return fileExists(warningMarkerPath())
}

func markWarningShown() {
	_ = os.MkdirAll(filepath.Dir(warningMarkerPath()), 0700)
	_ = os.WriteFile(warningMarkerPath(), []byte("1"), 0600)
}

func warningMarkerPath() string {
	return filepath.Join(xdg.DataHome, ServiceName, ".file-store-warning-shown")
}

// quietMode returns true if the user has suppressed warnings via WRUN_QUIET.
func quietMode() bool {
	return os.Getenv("WRUN_QUIET") == "1" || os.Getenv("WRUN_QUIET") == "true"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// warnOnce prints a message to stderr, but only until the marker exists.
func warnOnce(msg string) {
	if quietMode() || warningShown() {
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// markWarningsDone persists the marker so future commands stay quiet.
func markWarningsDone() {
	if !warningShown() {
		markWarningShown()
	}
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if there is no display server.
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

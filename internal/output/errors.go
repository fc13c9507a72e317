package output

import "errors"

// Exit codes following sysexits.h convention
const (
	ExitOK          = 0  // Success
	ExitGeneral     = 1  // General error
	ExitUsage       = 2  // Invalid usage / bad arguments
	ExitUnavailable = 3  // Wallet disabled, closed or cannot be opened
	ExitNotFound    = 4  // Folder, entry or match not found
	ExitConflict    = 5  // Conflict (entry already exists)
	ExitClipboard   = 6  // Clipboard cannot be written
	ExitUnreadable  = 7  // Entry exists but cannot be read
	ExitConfigError = 10 // Configuration error
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
	// Reported is set when the user has already been shown the message.
	Reported bool
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// ExitWithError prints the error and its hint via the formatter
func ExitWithError(formatter Formatter, err error) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if !cliErr.Reported {
			formatter.PrintError(cliErr)
		}
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		// Note: Actual os.Exit call should be in main.go, not here
		return
	}

	formatter.PrintError(err)
}

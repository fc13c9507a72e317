package output

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCLIError(t *testing.T) {
	err := NewCLIError(ExitUnavailable, "wallet unavailable")
	assert.Equal(t, ExitUnavailable, err.ExitCode)
	assert.Equal(t, "wallet unavailable", err.Message)
	assert.Empty(t, err.Hint)
}

func TestCLIErrorError(t *testing.T) {
	err := &CLIError{Message: "something broke"}
	assert.Equal(t, "something broke", err.Error())
}

func TestCLIErrorWithHint(t *testing.T) {
	err := NewCLIError(ExitUnavailable, "wallet unavailable")
	result := err.WithHint("Run: walletrunner config set backend file")

	// Fluent builder returns same pointer
	assert.Same(t, err, result)
	assert.Equal(t, "Run: walletrunner config set backend file", err.Hint)
}

func TestCLIErrorImplementsError(t *testing.T) {
	var err error = NewCLIError(ExitGeneral, "test")
	assert.Equal(t, "test", err.Error())
}

func TestExitWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "cli error with hint",
			err:  NewCLIError(ExitNotFound, "entry not found").WithHint("check the folder"),
			want: "error: entry not found\nhint: check the folder\n",
		},
		{
			name: "wrapped cli error",
			err:  fmt.Errorf("parse: %w", NewCLIError(ExitConfigError, "bad config")),
			want: "error: bad config\n",
		},
		{
			name: "already reported",
			err:  &CLIError{ExitCode: ExitUnavailable, Message: "wallet unavailable", Hint: "try the file backend", Reported: true},
			want: "hint: try the file backend\n",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "error: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errOut bytes.Buffer
			ExitWithError(NewWithWriters("plain", &bytes.Buffer{}, &errOut), tt.err)
			assert.Equal(t, tt.want, errOut.String())
		})
	}
}

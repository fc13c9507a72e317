// Package clipboard provides clipboard sinks for the system clipboard.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Modes accepted by Detect.
const (
	ModeAuto    = "auto"
	ModeOSC52   = "osc52"
	ModeCommand = "command"
)

// OSC52 writes the clipboard through the terminal using an OSC 52 escape
// sequence. It works over SSH but depends on terminal support.
type OSC52 struct {
	w io.Writer
}

// NewOSC52 creates an OSC 52 sink writing to w (usually os.Stderr).
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{w: w}
}

// SetText writes the sequence, wrapping it for tmux or screen when needed.
// Empty text clears the clipboard.
func (c *OSC52) SetText(text string) error {
	seq := osc52.New(text)
	if text == "" {
		seq = osc52.Clear()
	}
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.w); err != nil {
		return fmt.Errorf("osc52 write failed: %w", err)
	}
	return nil
}

// Command pipes text into an external clipboard tool.
type Command struct {
	name string
	args []string
}

// NewCommand creates a sink running name with args, text on stdin.
func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

// String returns the command line.
func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// SetText runs the command with text on stdin.
func (c *Command) SetText(text string) error {
	cmd := exec.Command(c.name, c.args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", c.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// candidates lists clipboard tools per platform, most specific first.
func candidates() []*Command {
	switch runtime.GOOS {
	case "darwin":
		return []*Command{NewCommand("pbcopy")}
	case "windows":
		return []*Command{NewCommand("clip.exe")}
	default:
		var cmds []*Command
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			cmds = append(cmds, NewCommand("wl-copy"))
		}
		if os.Getenv("DISPLAY") != "" {
			cmds = append(cmds,
				NewCommand("xclip", "-selection", "clipboard"),
				NewCommand("xsel", "--clipboard", "--input"),
			)
		}
		// WSL can reach the Windows clipboard
		return append(cmds, NewCommand("clip.exe"))
	}
}

// FindCommand returns the first clipboard tool available on PATH.
func FindCommand() (*Command, error) {
	return findCommand(exec.LookPath)
}

func findCommand(lookPath func(string) (string, error)) (*Command, error) {
	for _, c := range candidates() {
		if _, err := lookPath(c.name); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command found")
}

// Sink is the clipboard write interface shared by all modes.
type Sink interface {
	SetText(text string) error
}

// Detect picks a sink for the mode. "auto" prefers a clipboard tool and
// falls back to OSC 52 on the given terminal writer.
func Detect(mode string, term io.Writer) (Sink, error) {
	switch mode {
	case ModeOSC52:
		return NewOSC52(term), nil
	case ModeCommand:
		return FindCommand()
	case "", ModeAuto:
		if c, err := FindCommand(); err == nil {
			return c, nil
		}
		return NewOSC52(term), nil
	default:
		return nil, fmt.Errorf("unknown clipboard mode: %s", mode)
	}
}

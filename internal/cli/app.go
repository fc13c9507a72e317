package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/semmy-space/walletrunner/internal/clipboard"
	"github.com/semmy-space/walletrunner/internal/config"
	"github.com/semmy-space/walletrunner/internal/output"
	"github.com/semmy-space/walletrunner/internal/runner"
	"github.com/semmy-space/walletrunner/internal/wallet"
)

// notifyInterval limits repeated "wallet unavailable" notifications.
const notifyInterval = 2 * time.Second

// App carries the per-invocation dependencies shared by commands.
// The wallet and clipboard are opened lazily so commands such as
// "config" never touch the keyring.
type App struct {
	Config    *config.Config
	Globals   *Globals
	Formatter output.Formatter
	Mode      string
	Logger    *slog.Logger
	In        io.Reader
	Out       io.Writer
	Err       io.Writer

	openWallet func() (*wallet.Wallet, error)
	sink       runner.Sink
	clock      runner.Clock

	runner *runner.Runner
	wallet *wallet.Wallet
	input  *bufio.Reader
}

// NewApp creates an App bound to the process's standard streams.
func NewApp(cfg *config.Config, globals *Globals, formatter output.Formatter, logger *slog.Logger) *App {
	a := &App{
		Config:    cfg,
		Globals:   globals,
		Formatter: formatter,
		Logger:    logger,
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
	a.openWallet = func() (*wallet.Wallet, error) { return OpenWallet(cfg) }
	a.sink = &lazySink{mode: cfg.Clipboard, term: os.Stderr}
	return a
}

// OpenWallet opens the wallet selected by the configuration.
func OpenWallet(cfg *config.Config) (*wallet.Wallet, error) {
	return wallet.Open(wallet.Options{
		Backend:  cfg.Backend,
		Name:     cfg.Wallet,
		Password: os.Getenv("WRUN_WALLET_PASSWORD"),
	})
}

// Runner returns the open runner, opening the wallet on first use.
func (a *App) Runner() (*runner.Runner, error) {
	if a.runner != nil {
		return a.runner, nil
	}

	policy, err := runner.ParseClearPolicy(a.Config.ClearPolicy)
	if err != nil {
		return nil, &output.CLIError{Message: err.Error(), ExitCode: output.ExitConfigError}
	}

	notifier := runner.RateLimited(runner.NotifierFunc(func(title, message string) {
		a.Formatter.PrintError(errors.New(message))
	}), notifyInterval)

	r := runner.New(func() (runner.Store, error) {
		w, err := a.openWallet()
		if err != nil {
			return nil, err
		}
		a.wallet = w
		return w, nil
	}, a.sink, runner.Options{
		SearchPrefix: a.Config.SearchPrefix,
		AddMarker:    a.Config.AddMarker,
		ClearDelay:   a.Config.ClearDelayDuration(),
		ClearPolicy:  policy,
		Clock:        a.clock,
		Notifier:     notifier,
		Logger:       a.Logger,
	})

	if err := r.Open(); err != nil {
		return nil, output.NewCLIError(output.ExitUnavailable, fmt.Sprintf("Could not open wallet: %v", err)).
			WithHint(backendHint)
	}
	a.runner = r
	return r, nil
}

// Wallet returns the open wallet for write operations.
func (a *App) Wallet() (*wallet.Wallet, error) {
	if _, err := a.Runner(); err != nil {
		return nil, err
	}
	if !a.wallet.IsEnabled() {
		return nil, cliError(wallet.ErrDisabled)
	}
	if !a.wallet.IsOpen() {
		return nil, cliError(wallet.ErrClosed)
	}
	return a.wallet, nil
}

// Close closes the runner and its wallet. Pending independent clears
// keep running; callers that must outlive them use Runner.Wait first.
func (a *App) Close() {
	if a.runner == nil {
		return
	}
	if err := a.runner.Close(); err != nil {
		a.Logger.Warn("failed to close wallet", "error", err)
	}
	a.runner = nil
	a.wallet = nil
}

// reader returns the buffered input shared by prompts and the shell.
func (a *App) reader() *bufio.Reader {
	if a.input == nil {
		a.input = bufio.NewReader(a.In)
	}
	return a.input
}

const backendHint = "Try: walletrunner config set backend file"

// cliError maps runner and wallet errors to exit codes.
func cliError(err error) error {
	var cliErr *output.CLIError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &cliErr):
		return cliErr
	case errors.Is(err, runner.ErrStoreUnavailable), errors.Is(err, wallet.ErrDisabled), errors.Is(err, wallet.ErrClosed):
		cliErr = output.NewCLIError(output.ExitUnavailable, fmt.Sprintf("Could not open wallet: %v", err)).
			WithHint(backendHint)
		// The runner notifies before returning ErrStoreUnavailable.
		cliErr.Reported = errors.Is(err, runner.ErrStoreUnavailable)
		return cliErr
	case errors.Is(err, runner.ErrEntryUnreadable):
		return output.NewCLIError(output.ExitUnreadable, err.Error())
	case errors.Is(err, wallet.ErrNotFound):
		return output.NewCLIError(output.ExitNotFound, err.Error())
	default:
		return &output.CLIError{Message: err.Error(), ExitCode: output.ExitGeneral}
	}
}

// lazySink detects the clipboard on first write so read-only commands do
// not fail when no clipboard is available.
type lazySink struct {
	mode string
	term io.Writer

	once sync.Once
	sink clipboard.Sink
	err  error
}

func (s *lazySink) SetText(text string) error {
	s.once.Do(func() {
		s.sink, s.err = clipboard.Detect(s.mode, s.term)
	})
	if s.err != nil {
		return output.NewCLIError(output.ExitClipboard, fmt.Sprintf("Clipboard unavailable: %v", s.err)).
			WithHint("Install wl-copy or xclip, or run: walletrunner config set clipboard osc52")
	}
	return s.sink.SetText(text)
}

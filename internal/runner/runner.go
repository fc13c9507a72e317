// Package runner resolves launcher queries against a credential wallet and
// executes the selected match.
//
// A Runner is an explicit service: the owner constructs it, calls Open once
// before querying, and Close when done. Resolution and execution are
// synchronous; the only deferred work is the clipboard auto-clear.
package runner

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Defaults for the query syntax.
const (
	DefaultSearchPrefix = "kwallet"
	DefaultAddMarker    = "kwallet-add"
)

// Options configures a Runner. Zero values select the defaults.
type Options struct {
	SearchPrefix string
	AddMarker    string
	ClearDelay   time.Duration
	ClearPolicy  ClearPolicy
	Clock        Clock
	Notifier     Notifier
	Logger       *slog.Logger
}

// Runner ties a store to a resolver and an executor.
type Runner struct {
	opener    Opener
	resolver  *Resolver
	executor  *Executor
	clipboard *Clipboard
	notifier  Notifier
	logger    *slog.Logger
	prefix    string
	marker    string

	mu    sync.Mutex
	store Store
}

// New creates a Runner. The store is not opened until Open is called.
func New(opener Opener, sink Sink, opts Options) *Runner {
	if opts.SearchPrefix == "" {
		opts.SearchPrefix = DefaultSearchPrefix
	}
	if opts.AddMarker == "" {
		opts.AddMarker = DefaultAddMarker
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(title, message string) {
			opts.Logger.Error(message, "title", title)
		})
	}

	clipboard := NewClipboard(sink, opts.Clock, opts.ClearDelay, opts.ClearPolicy, opts.Logger)
	return &Runner{
		opener:    opener,
		resolver:  NewResolver(opts.SearchPrefix, opts.AddMarker, opts.Logger),
		executor:  NewExecutor(clipboard, opts.Logger),
		clipboard: clipboard,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		prefix:    opts.SearchPrefix,
		marker:    opts.AddMarker,
	}
}

// Open opens the store. Calling Open on an open runner is a no-op.
func (r *Runner) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store != nil {
		return nil
	}
	store, err := r.opener()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	r.store = store
	return nil
}

// Close closes the store and cancels a superseding pending clear.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clipboard.Stop()
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

// Store returns the open store, or nil.
func (r *Runner) Store() Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store
}

// Match resolves a query. When the store is unavailable the user is
// notified and ErrStoreUnavailable is returned with no matches.
func (r *Runner) Match(query string) ([]Match, error) {
	store, err := r.availableStore()
	if err != nil {
		return nil, err
	}
	return r.resolver.Resolve(query, store), nil
}

// Run executes a match with the given action ("" for the default action).
func (r *Runner) Run(m Match, action string) (Result, error) {
	if m.Kind != KindEntry {
		return r.executor.Execute(m, action, nil)
	}

	store, err := r.availableStore()
	if err != nil {
		return Result{}, err
	}
	return r.executor.Execute(m, action, store)
}

// View reads an entry for the entry viewer.
func (r *Runner) View(folder, entry string) (*EntryView, error) {
	store, err := r.availableStore()
	if err != nil {
		return nil, err
	}
	return View(store, folder, entry)
}

// CopyField copies a viewer field without scheduling a clear.
func (r *Runner) CopyField(value string) error {
	return r.executor.CopyField(value)
}

// Actions returns the secondary actions offered for a match.
func (r *Runner) Actions(m Match) []Action {
	if m.Kind != KindEntry {
		return nil
	}
	return []Action{overviewAction}
}

// Syntaxes describes the accepted query forms.
func (r *Runner) Syntaxes() []Syntax {
	return []Syntax{
		{Example: r.prefix + " :q:", Description: "Finds all wallet entries matching :q:"},
		{Example: ":q: " + r.marker, Description: "Add an entry named :q:, or edit it if it exists"},
	}
}

// Wait blocks until all scheduled clipboard clears have run.
func (r *Runner) Wait() {
	r.clipboard.Wait()
}

func (r *Runner) availableStore() (Store, error) {
	r.mu.Lock()
	store := r.store
	r.mu.Unlock()

	if !available(store) {
		r.notifier.Notify("Wallet", "Could not open wallet!")
		return nil, ErrStoreUnavailable
	}
	return store, nil
}

package runner

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/semmy-space/walletrunner/internal/wallet"
)

// Executor performs the effect of a selected match.
type Executor struct {
	clipboard *Clipboard
	logger    *slog.Logger
}

// NewExecutor creates an executor copying through clipboard.
func NewExecutor(clipboard *Clipboard, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{clipboard: clipboard, logger: logger}
}

// Execute runs a match. action is empty for the default action or
// ActionOverview to always reveal the entry.
//
// Password entries and single-field map entries are copied with a timed
// clear. Everything else is revealed.
func (e *Executor) Execute(m Match, action string, store Store) (Result, error) {
	switch m.Kind {
	case KindAdd, KindEdit:
		return Result{Kind: ResultEditor, Seed: m.Seed, Existing: m.Kind == KindEdit}, nil
	}

	if action == "" {
		value, ok, err := e.fastPath(m, store)
		if err != nil {
			return Result{}, err
		}
		if ok {
			if err := e.clipboard.CopyTimed(value); err != nil {
				return Result{}, err
			}
			e.logger.Debug("copied entry", "folder", m.Folder, "entry", m.Entry)
			return Result{Kind: ResultCopied, ClearAfter: e.clipboard.Delay()}, nil
		}
	} else if action != ActionOverview {
		return Result{}, fmt.Errorf("unknown action: %s", action)
	}

	view, err := View(store, m.Folder, m.Entry)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: ResultReveal, View: view}, nil
}

// fastPath returns the single value to copy, if the entry has exactly one.
func (e *Executor) fastPath(m Match, store Store) (string, bool, error) {
	if err := store.SetFolder(m.Folder); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrEntryUnreadable, err)
	}

	switch store.EntryType(m.Entry) {
	case wallet.Password:
		secret, err := store.ReadPassword(m.Entry)
		if err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrEntryUnreadable, err)
		}
		return secret, true, nil
	case wallet.Map:
		fields, err := store.ReadMap(m.Entry)
		if err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrEntryUnreadable, err)
		}
		if len(fields) == 1 {
			for _, v := range fields {
				return v, true, nil
			}
		}
	}
	return "", false, nil
}

// CopyField copies one field from the entry viewer. Viewer copies are
// never auto-cleared.
func (e *Executor) CopyField(value string) error {
	return e.clipboard.Copy(value)
}

// View reads an entry for the entry viewer. Map fields are ordered by name.
// Unknown entries produce a view with no fields.
func View(store Store, folder, entry string) (*EntryView, error) {
	if err := store.SetFolder(folder); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryUnreadable, err)
	}

	view := &EntryView{
		Folder: folder,
		Entry:  entry,
		Type:   store.EntryType(entry),
		Fields: []Field{},
	}

	switch view.Type {
	case wallet.Password:
		secret, err := store.ReadPassword(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntryUnreadable, err)
		}
		view.Fields = append(view.Fields, Field{Name: "password", Value: secret})
	case wallet.Map:
		fields, err := store.ReadMap(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntryUnreadable, err)
		}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			view.Fields = append(view.Fields, Field{Name: name, Value: fields[name]})
		}
	}
	return view, nil
}

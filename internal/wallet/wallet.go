package wallet

import (
	"fmt"
	"maps"
	"sync"
)

// Wallet is an ordered collection of folders holding password and map
// entries. Reads and writes are scoped to the folder selected with
// SetFolder, starting at the default folder.
type Wallet struct {
	mu      sync.Mutex
	backend backend
	doc     *document
	folder  string
	open    bool
}

// open loads the document from the backend. A nil backend produces a
// disabled wallet rather than an error so callers can still report state.
func open(b backend) (*Wallet, error) {
	w := &Wallet{backend: b, folder: DefaultFolder}
	if b == nil {
		return w, nil
	}

	doc, err := b.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s wallet: %w", b.Name(), err)
	}
	w.doc = doc
	w.open = true
	return w, nil
}

// Disabled returns a wallet with no backend. It reports IsEnabled false.
func Disabled() *Wallet {
	w, _ := open(nil)
	return w
}

// Backend returns the name of the storage backend ("keyring", "file", ...).
func (w *Wallet) Backend() string {
	if w.backend == nil {
		return "disabled"
	}
	return w.backend.Name()
}

// IsEnabled reports whether the wallet has a storage backend.
func (w *Wallet) IsEnabled() bool {
	return w.backend != nil
}

// IsOpen reports whether the wallet is loaded and not closed.
func (w *Wallet) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Close releases the backend. Further reads fail with ErrClosed.
func (w *Wallet) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open {
		return nil
	}
	w.open = false
	w.doc = nil
	return w.backend.Close()
}

// SetFolder moves the folder cursor. The cursor is unchanged when the
// folder does not exist.
func (w *Wallet) SetFolder(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(); err != nil {
		return err
	}
	if w.doc.folder(name) == nil {
		return fmt.Errorf("folder %q: %w", name, ErrNotFound)
	}
	w.folder = name
	return nil
}

// CurrentFolder returns the folder the cursor points at.
func (w *Wallet) CurrentFolder() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.folder
}

// FolderList returns folder names in wallet order.
func (w *Wallet) FolderList() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(w.doc.Folders))
	for _, f := range w.doc.Folders {
		names = append(names, f.Name)
	}
	return names, nil
}

// EntryList returns the entry names of the current folder in wallet order.
func (w *Wallet) EntryList() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.current()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// HasEntry reports whether the current folder holds an entry with that name.
func (w *Wallet) HasEntry(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.current()
	if err != nil {
		return false
	}
	return f.entry(name) != nil
}

// EntryType returns the kind of the named entry in the current folder.
// Missing entries report Unknown.
func (w *Wallet) EntryType(name string) EntryType {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, err := w.lookup(name)
	if err != nil {
		return Unknown
	}
	return ParseEntryType(e.Type)
}

// ReadPassword returns the secret of a password entry.
func (w *Wallet) ReadPassword(name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, err := w.lookup(name)
	if err != nil {
		return "", err
	}
	if ParseEntryType(e.Type) != Password {
		return "", fmt.Errorf("entry %q: %w", name, ErrWrongType)
	}
	return e.Password, nil
}

// ReadMap returns a copy of the fields of a map entry.
func (w *Wallet) ReadMap(name string) (map[string]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, err := w.lookup(name)
	if err != nil {
		return nil, err
	}
	if ParseEntryType(e.Type) != Map {
		return nil, fmt.Errorf("entry %q: %w", name, ErrWrongType)
	}
	fields := make(map[string]string, len(e.Map))
	maps.Copy(fields, e.Map)
	return fields, nil
}

// CreateFolder appends a folder. Creating an existing folder is a no-op.
func (w *Wallet) CreateFolder(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(); err != nil {
		return err
	}
	return w.update(func(d *document) error {
		if d.folder(name) == nil {
			d.Folders = append(d.Folders, &folder{Name: name})
		}
		return nil
	})
}

// WritePassword creates or replaces a password entry in the current folder.
func (w *Wallet) WritePassword(name, secret string) error {
	return w.put(&entry{Name: name, Type: Password.String(), Password: secret})
}

// WriteMap creates or replaces a map entry in the current folder.
func (w *Wallet) WriteMap(name string, fields map[string]string) error {
	m := make(map[string]string, len(fields))
	maps.Copy(m, fields)
	return w.put(&entry{Name: name, Type: Map.String(), Map: m})
}

// RemoveEntry deletes an entry from the current folder.
func (w *Wallet) RemoveEntry(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(); err != nil {
		return err
	}
	return w.update(func(d *document) error {
		f := d.folder(w.folder)
		if f == nil {
			return fmt.Errorf("folder %q: %w", w.folder, ErrNotFound)
		}
		if !f.remove(name) {
			return fmt.Errorf("entry %q: %w", name, ErrNotFound)
		}
		return nil
	})
}

func (w *Wallet) put(e *entry) error {
	if e.Name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(); err != nil {
		return err
	}
	return w.update(func(d *document) error {
		f := d.folder(w.folder)
		if f == nil {
			return fmt.Errorf("folder %q: %w", w.folder, ErrNotFound)
		}
		f.put(e)
		return nil
	})
}

// update applies fn to the freshly stored document and adopts the result.
// The loaded document is left untouched when the update fails.
func (w *Wallet) update(fn func(*document) error) error {
	doc, err := w.backend.Update(fn)
	if err != nil {
		return err
	}
	w.doc = doc
	return nil
}

func (w *Wallet) check() error {
	if w.backend == nil {
		return ErrDisabled
	}
	if !w.open {
		return ErrClosed
	}
	return nil
}

func (w *Wallet) current() (*folder, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	f := w.doc.folder(w.folder)
	if f == nil {
		return nil, fmt.Errorf("folder %q: %w", w.folder, ErrNotFound)
	}
	return f, nil
}

func (w *Wallet) lookup(name string) (*entry, error) {
	f, err := w.current()
	if err != nil {
		return nil, err
	}
	e := f.entry(name)
	if e == nil {
		return nil, fmt.Errorf("entry %q: %w", name, ErrNotFound)
	}
	return e, nil
}

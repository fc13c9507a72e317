package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
)

// keyringBackend stores the whole wallet document as a single OS keyring item.
// Keyrings have no transactions, so updates are serialised through a lock
// file when lockPath is set.
type keyringBackend struct {
	ring     keyring.Keyring
	key      string
	lockPath string
}

// OpenKeyring opens the named wallet from the OS keyring.
// Returns an error if the keyring is unavailable on this platform.
func OpenKeyring(name string) (*Wallet, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  filepath.Join(xdg.DataHome, ServiceName, "keyring"),
		FilePasswordFunc:         keyring.TerminalPrompt,
		LibSecretCollectionName:  "login",
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	dir := filepath.Join(xdg.DataHome, ServiceName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	key := itemKey(name)
	return open(&keyringBackend{ring: ring, key: key, lockPath: filepath.Join(dir, key+".lock")})
}

// OpenKeyringWith opens the named wallet on an already opened keyring.
// Updates are not guarded by a lock file.
func OpenKeyringWith(ring keyring.Keyring, name string) (*Wallet, error) {
	return open(&keyringBackend{ring: ring, key: itemKey(name)})
}

func itemKey(name string) string {
	if name == "" {
		name = "default"
	}
	return "wallet-" + name
}

func (b *keyringBackend) Name() string { return "keyring" }

// Load reads the wallet item. A missing item is an empty wallet.
func (b *keyringBackend) Load() (*document, error) {
	item, err := b.ring.Get(b.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return newDocument(), nil
		}
		return nil, fmt.Errorf("keyring get failed: %w", err)
	}
	return decodeDocument(item.Data)
}

// Update re-reads the wallet item, applies fn and writes the item back.
func (b *keyringBackend) Update(fn func(*document) error) (*document, error) {
	if b.lockPath != "" {
		lock, err := lockFile(b.lockPath, true)
		if err != nil {
			return nil, err
		}
		defer lock.Unlock()
	}

	doc, err := b.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}

	data, err := doc.encode()
	if err != nil {
		return nil, err
	}
	item := keyring.Item{
		Key:         b.key,
		Data:        data,
		Label:       ServiceName + " " + b.key,
		Description: "walletrunner wallet document",
	}
	if err := b.ring.Set(item); err != nil {
		return nil, fmt.Errorf("keyring set failed: %w", err)
	}
	return doc, nil
}

func (b *keyringBackend) Close() error { return nil }

package runner

import (
	"errors"

	"github.com/semmy-space/walletrunner/internal/wallet"
)

// Store is the read side of a credential wallet. Entry reads are scoped
// to the folder selected with SetFolder. *wallet.Wallet implements it.
type Store interface {
	IsEnabled() bool
	IsOpen() bool
	SetFolder(name string) error
	FolderList() ([]string, error)
	EntryList() ([]string, error)
	EntryType(name string) wallet.EntryType
	ReadPassword(name string) (string, error)
	ReadMap(name string) (map[string]string, error)
	HasEntry(name string) bool
	Close() error
}

// Opener opens the store. It is called once by Runner.Open.
type Opener func() (Store, error)

var (
	// ErrStoreUnavailable is returned when the store is disabled or not open
	ErrStoreUnavailable = errors.New("wallet unavailable")

	// ErrEntryUnreadable is returned when an entry cannot be read
	ErrEntryUnreadable = errors.New("entry unreadable")
)

func available(s Store) bool {
	return s != nil && s.IsEnabled() && s.IsOpen()
}

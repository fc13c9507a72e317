package wallet

import "errors"

// EntryType is the kind of value an entry holds.
type EntryType int

const (
	Unknown EntryType = iota
	Password
	Map
)

// String returns the name used in the persisted document and in output.
func (t EntryType) String() string {
	switch t {
	case Password:
		return "password"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// ParseEntryType maps a persisted type name back to an EntryType.
// Anything unrecognised decodes as Unknown.
func ParseEntryType(s string) EntryType {
	switch s {
	case "password":
		return Password
	case "map":
		return Map
	default:
		return Unknown
	}
}

// DefaultFolder is the unnamed root folder every wallet has.
const DefaultFolder = ""

var (
	// ErrNotFound is returned when a folder or entry does not exist
	ErrNotFound = errors.New("not found")

	// ErrDisabled is returned when the wallet has no usable backend
	ErrDisabled = errors.New("wallet disabled")

	// ErrClosed is returned for operations on a closed wallet
	ErrClosed = errors.New("wallet closed")

	// ErrWrongType is returned when reading an entry as the wrong kind
	ErrWrongType = errors.New("entry has a different type")
)

// ServiceName is the service identifier for keyring storage
const ServiceName = "walletrunner"

// backend persists the whole wallet document.
type backend interface {
	Name() string
	Load() (*document, error)
	// Update reloads the stored document, applies fn and stores the result,
	// returning the document that was written. Nothing is stored when fn or
	// the write fails.
	Update(fn func(*document) error) (*document, error)
	Close() error
}

package wallet

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// File layout: magic | salt | nonce | ciphertext.
const (
	fileMagic = "WRW1"
	saltSize  = 16
)

// Argon2id parameters for deriving the file key.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

// fileBackend stores the wallet document in an XChaCha20-Poly1305
// encrypted file keyed by argon2id. This is the fallback for environments
// where the OS keyring is unavailable (WSL, headless, containers).
type fileBackend struct {
	path       string
	lockPath   string
	passphrase []byte

	// salt and key are cached from the last load or first save
	salt []byte
	key  []byte
}

// DefaultFilePath returns the encrypted wallet path for a wallet name,
// typically ~/.local/share/walletrunner/<name>.wallet on Linux.
func DefaultFilePath(name string) string {
	if name == "" {
		name = "default"
	}
	return filepath.Join(xdg.DataHome, ServiceName, name+".wallet")
}

// OpenFile opens an encrypted file wallet. An empty path uses DefaultFilePath
// for the default wallet. If password is empty, a machine-specific
// passphrase is used (less secure, prints a warning once).
func OpenFile(path, password string) (*Wallet, error) {
	b, err := newFileBackend(path, password)
	if err != nil {
		return nil, err
	}
	return open(b)
}

func newFileBackend(path, password string) (*fileBackend, error) {
	if path == "" {
		path = DefaultFilePath("")
	}

	if password == "" {
		// Machine-specific default (less secure than user-provided password)
		hostname, _ := os.Hostname()
		username := os.Getenv("USER")
		if username == "" {
			username = os.Getenv("USERNAME") // Windows fallback
		}
		password = fmt.Sprintf("%s@%s", username, hostname)
		warnOnce("WARNING: Using machine-specific encryption key. For better security, set a password via WRUN_WALLET_PASSWORD.")
	}

	// Create parent directory with 0700 permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create wallet directory: %w", err)
	}

	return &fileBackend{
		path:       path,
		lockPath:   path + ".lock",
		passphrase: []byte(password),
	}, nil
}

func (b *fileBackend) Name() string { return "file" }

// deriveKey returns the key for salt, reusing the cached one when the
// salt is unchanged.
func (b *fileBackend) deriveKey(salt []byte) []byte {
	if b.key != nil && bytes.Equal(b.salt, salt) {
		return b.key
	}
	b.salt = append([]byte(nil), salt...)
	b.key = argon2.IDKey(b.passphrase, b.salt, kdfTime, kdfMemory, kdfThreads, chacha20poly1305.KeySize)
	return b.key
}

// encrypt seals plaintext with a random nonce under the cached salt,
// generating a salt on first use.
func (b *fileBackend) encrypt(plaintext []byte) ([]byte, error) {
	salt := b.salt
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	}

	aead, err := chacha20poly1305.NewX(b.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// decrypt reverses encrypt.
func (b *fileBackend) decrypt(data []byte) ([]byte, error) {
	header := len(fileMagic) + saltSize + chacha20poly1305.NonceSizeX
	if len(data) < header || string(data[:len(fileMagic)]) != fileMagic {
		return nil, fmt.Errorf("not a wallet file")
	}

	salt := data[len(fileMagic) : len(fileMagic)+saltSize]
	nonce := data[len(fileMagic)+saltSize : header]

	aead, err := chacha20poly1305.NewX(b.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, data[header:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

// lockFile takes path as a lock file, shared for reads and exclusive for
// read-modify-write cycles.
func lockFile(path string, exclusive bool) (*flock.Flock, error) {
	lock := flock.New(path)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = lock.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock: timeout")
	}
	return lock, nil
}

// Load decrypts and parses the wallet file.
// Returns an empty wallet if the file doesn't exist.
func (b *fileBackend) Load() (*document, error) {
	lock, err := lockFile(b.lockPath, false)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	return b.read()
}

// Update re-reads the file under the exclusive lock, applies fn and
// writes the result before releasing the lock.
func (b *fileBackend) Update(fn func(*document) error) (*document, error) {
	lock, err := lockFile(b.lockPath, true)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}

	plaintext, err := doc.encode()
	if err != nil {
		return nil, err
	}
	ciphertext, err := b.encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(b.path, ciphertext, 0600); err != nil {
		return nil, fmt.Errorf("failed to write wallet file: %w", err)
	}
	return doc, nil
}

// read loads the file. The caller holds the lock.
func (b *fileBackend) read() (*document, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(), nil
		}
		return nil, fmt.Errorf("failed to read wallet file: %w", err)
	}
	if len(data) == 0 {
		return newDocument(), nil
	}

	plaintext, err := b.decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	return decodeDocument(plaintext)
}

func (b *fileBackend) Close() error { return nil }

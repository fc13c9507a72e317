package wallet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, w *Wallet) {
	t.Helper()
	require.NoError(t, w.WritePassword("github", "sek123"))
	require.NoError(t, w.WriteMap("wifi", map[string]string{"ssid": "home", "password": "pw1"}))
	require.NoError(t, w.CreateFolder("Work"))
	require.NoError(t, w.SetFolder("Work"))
	require.NoError(t, w.WritePassword("vpn", "tunnel"))
	require.NoError(t, w.WritePassword("GitLab", "lab"))
	require.NoError(t, w.SetFolder(DefaultFolder))
}

func TestWalletReads(t *testing.T) {
	w := OpenMemory()
	seed(t, w)

	assert.True(t, w.IsEnabled())
	assert.True(t, w.IsOpen())

	folders, err := w.FolderList()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Work"}, folders)

	entries, err := w.EntryList()
	require.NoError(t, err)
	assert.Equal(t, []string{"github", "wifi"}, entries)

	assert.Equal(t, Password, w.EntryType("github"))
	assert.Equal(t, Map, w.EntryType("wifi"))
	assert.Equal(t, Unknown, w.EntryType("missing"))

	secret, err := w.ReadPassword("github")
	require.NoError(t, err)
	assert.Equal(t, "sek123", secret)

	fields, err := w.ReadMap("wifi")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ssid": "home", "password": "pw1"}, fields)

	t.Run("read map returns a copy", func(t *testing.T) {
		fields["ssid"] = "changed"
		again, err := w.ReadMap("wifi")
		require.NoError(t, err)
		assert.Equal(t, "home", again["ssid"])
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := w.ReadPassword("wifi")
		assert.ErrorIs(t, err, ErrWrongType)
		_, err = w.ReadMap("github")
		assert.ErrorIs(t, err, ErrWrongType)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := w.ReadPassword("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestWalletFolderCursor(t *testing.T) {
	w := OpenMemory()
	seed(t, w)

	assert.True(t, w.HasEntry("github"))
	assert.False(t, w.HasEntry("vpn"))

	require.NoError(t, w.SetFolder("Work"))
	assert.Equal(t, "Work", w.CurrentFolder())
	assert.True(t, w.HasEntry("vpn"))

	entries, err := w.EntryList()
	require.NoError(t, err)
	assert.Equal(t, []string{"vpn", "GitLab"}, entries)

	t.Run("unknown folder keeps cursor", func(t *testing.T) {
		err := w.SetFolder("Nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Work", w.CurrentFolder())
	})
}

func TestWalletWrites(t *testing.T) {
	w := OpenMemory()
	seed(t, w)

	t.Run("replace keeps position", func(t *testing.T) {
		require.NoError(t, w.WritePassword("github", "rotated"))
		entries, err := w.EntryList()
		require.NoError(t, err)
		assert.Equal(t, []string{"github", "wifi"}, entries)

		secret, err := w.ReadPassword("github")
		require.NoError(t, err)
		assert.Equal(t, "rotated", secret)
	})

	t.Run("replace can change type", func(t *testing.T) {
		require.NoError(t, w.WriteMap("github", map[string]string{"token": "t"}))
		assert.Equal(t, Map, w.EntryType("github"))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, w.RemoveEntry("github"))
		assert.False(t, w.HasEntry("github"))
		assert.ErrorIs(t, w.RemoveEntry("github"), ErrNotFound)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		assert.Error(t, w.WritePassword("", "x"))
	})

	t.Run("create existing folder is a no-op", func(t *testing.T) {
		require.NoError(t, w.CreateFolder("Work"))
		folders, err := w.FolderList()
		require.NoError(t, err)
		assert.Equal(t, []string{"", "Work"}, folders)
	})
}

func TestWalletClosedAndDisabled(t *testing.T) {
	w := OpenMemory()
	require.NoError(t, w.Close())
	assert.False(t, w.IsOpen())

	_, err := w.FolderList()
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, w.HasEntry("anything"))
	require.NoError(t, w.Close(), "second close is a no-op")

	d := Disabled()
	assert.False(t, d.IsEnabled())
	assert.False(t, d.IsOpen())
	assert.Equal(t, "disabled", d.Backend())
	_, err = d.EntryList()
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wallet")

	w, err := OpenFile(path, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "file", w.Backend())
	seed(t, w)
	require.NoError(t, w.Close())

	reopened, err := OpenFile(path, "correct horse")
	require.NoError(t, err)

	folders, err := reopened.FolderList()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Work"}, folders)

	require.NoError(t, reopened.SetFolder("Work"))
	entries, err := reopened.EntryList()
	require.NoError(t, err)
	assert.Equal(t, []string{"vpn", "GitLab"}, entries)

	t.Run("wrong password fails to decrypt", func(t *testing.T) {
		_, err := OpenFile(path, "wrong")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decrypt")
	})
}

func TestFileBackendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wallet")

	w, err := OpenFile(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, w.WritePassword("github", "sek123"))
	require.NoError(t, w.WritePassword("gitlab", "sek456"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(fileMagic)))
	assert.NotContains(t, string(data), "sek123")
	assert.NotContains(t, string(data), "github")

	t.Run("salt is kept across saves", func(t *testing.T) {
		require.NoError(t, w.RemoveEntry("gitlab"))
		again, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data[:len(fileMagic)+saltSize], again[:len(fileMagic)+saltSize])
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.wallet")
		require.NoError(t, os.WriteFile(bad, []byte("{\"folders\": []}"), 0600))
		_, err := OpenFile(bad, "correct horse")
		assert.ErrorContains(t, err, "not a wallet file")
	})
}

func TestFileBackendMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "empty.wallet")

	w, err := OpenFile(path, "pw")
	require.NoError(t, err)

	folders, err := w.FolderList()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultFolder}, folders)
}

func TestKeyringBackendRoundTrip(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)

	w, err := OpenKeyringWith(ring, "")
	require.NoError(t, err)
	assert.Equal(t, "keyring", w.Backend())
	seed(t, w)

	keys, err := ring.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"wallet-default"}, keys)

	reopened, err := OpenKeyringWith(ring, "default")
	require.NoError(t, err)
	require.NoError(t, reopened.SetFolder("Work"))
	entries, err := reopened.EntryList()
	require.NoError(t, err)
	assert.Equal(t, []string{"vpn", "GitLab"}, entries)

	t.Run("separate wallet names do not share items", func(t *testing.T) {
		other, err := OpenKeyringWith(ring, "other")
		require.NoError(t, err)
		assert.False(t, other.HasEntry("github"))
	})
}

func TestDecodeDocument(t *testing.T) {
	t.Run("adds missing default folder first", func(t *testing.T) {
		doc, err := decodeDocument([]byte(`{"version":1,"folders":[{"name":"A","entries":[]}]}`))
		require.NoError(t, err)
		require.Len(t, doc.Folders, 2)
		assert.Equal(t, DefaultFolder, doc.Folders[0].Name)
		assert.Equal(t, "A", doc.Folders[1].Name)
	})

	t.Run("unknown entry type decodes as Unknown", func(t *testing.T) {
		doc, err := decodeDocument([]byte(`{"version":1,"folders":[{"name":"","entries":[{"name":"blob","type":"stream"}]}]}`))
		require.NoError(t, err)
		assert.Equal(t, Unknown, ParseEntryType(doc.Folders[0].Entries[0].Type))
	})

	t.Run("future version rejected", func(t *testing.T) {
		_, err := decodeDocument([]byte(`{"version":99}`))
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := decodeDocument([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "floppy"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown wallet backend")
}

func TestOpenDisabled(t *testing.T) {
	w, err := Open(Options{Backend: BackendDisabled})
	require.NoError(t, err)
	assert.False(t, w.IsEnabled())
}

func TestOpenFileBackend(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("WRUN_QUIET", "1")
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	path := filepath.Join(t.TempDir(), "opts.wallet")

	w, err := Open(Options{Backend: BackendFile, FilePath: path, Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "file", w.Backend())
}

func TestConcurrentWritersKeepEachOthersEntries(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) func() (*Wallet, error)
	}{
		{
			name: "file",
			open: func(t *testing.T) func() (*Wallet, error) {
				path := filepath.Join(t.TempDir(), "shared.wallet")
				return func() (*Wallet, error) { return OpenFile(path, "pw") }
			},
		},
		{
			name: "keyring",
			open: func(t *testing.T) func() (*Wallet, error) {
				ring := keyring.NewArrayKeyring(nil)
				return func() (*Wallet, error) { return OpenKeyringWith(ring, "shared") }
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open := tt.open(t)

			session, err := open()
			require.NoError(t, err)
			other, err := open()
			require.NoError(t, err)

			require.NoError(t, other.WritePassword("github", "sek123"))
			require.NoError(t, session.WritePassword("gitlab", "lab"))
			require.NoError(t, other.CreateFolder("Work"))
			require.NoError(t, session.RemoveEntry("github"))
			require.NoError(t, other.WritePassword("bitbucket", "bb"))

			fresh, err := open()
			require.NoError(t, err)
			entries, err := fresh.EntryList()
			require.NoError(t, err)
			assert.Equal(t, []string{"gitlab", "bitbucket"}, entries)

			folders, err := fresh.FolderList()
			require.NoError(t, err)
			assert.Equal(t, []string{"", "Work"}, folders)

			// the writer sees the merged document after its own write
			entries, err = other.EntryList()
			require.NoError(t, err)
			assert.Equal(t, []string{"gitlab", "bitbucket"}, entries)
		})
	}
}

// brokenBackend loads an empty wallet and fails every write.
type brokenBackend struct {
	memoryBackend
}

func (b *brokenBackend) Update(fn func(*document) error) (*document, error) {
	doc, err := b.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	return nil, errors.New("disk full")
}

func TestFailedWriteLeavesWalletUnchanged(t *testing.T) {
	w, err := open(&brokenBackend{})
	require.NoError(t, err)

	assert.ErrorContains(t, w.WritePassword("github", "sek123"), "disk full")
	assert.ErrorContains(t, w.WriteMap("wifi", map[string]string{"ssid": "home"}), "disk full")
	assert.ErrorContains(t, w.CreateFolder("Work"), "disk full")

	entries, err := w.EntryList()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, w.HasEntry("github"))

	folders, err := w.FolderList()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultFolder}, folders)
}

func TestRemoveMissingEntry(t *testing.T) {
	w := OpenMemory()
	require.NoError(t, w.WritePassword("github", "sek123"))

	assert.ErrorIs(t, w.RemoveEntry("gitlab"), ErrNotFound)
	assert.True(t, w.HasEntry("github"))
}

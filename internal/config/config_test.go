package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json5"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadJSON5MergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	data := `{
  // comments and trailing commas are fine
  "search_prefix": "pw",
  "clear_delay": "10s",
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "pw", cfg.SearchPrefix)
	assert.Equal(t, 10*time.Second, cfg.ClearDelayDuration())
	assert.Equal(t, "kwallet-add", cfg.AddMarker, "missing keys keep defaults")
	assert.Equal(t, "auto", cfg.Backend)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json5")

	cfg := Defaults()
	require.NoError(t, cfg.Set("clear_policy", "supersede"))
	require.NoError(t, cfg.SaveTo(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "supersede", loaded.ClearPolicy)
}

func TestGetSetUnset(t *testing.T) {
	cfg := Defaults()

	t.Run("get", func(t *testing.T) {
		v, err := cfg.Get("search_prefix")
		require.NoError(t, err)
		assert.Equal(t, "kwallet", v)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := cfg.Get("region")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown config key")
		assert.Error(t, cfg.Set("region", "us"))
		assert.Error(t, cfg.Unset("region"))
	})

	t.Run("set validates enumerations", func(t *testing.T) {
		err := cfg.Set("backend", "floppy")
		assert.Error(t, err)
		assert.Equal(t, "auto", cfg.Backend)

		require.NoError(t, cfg.Set("backend", "file"))
		assert.Equal(t, "file", cfg.Backend)
	})

	t.Run("set validates durations", func(t *testing.T) {
		assert.Error(t, cfg.Set("clear_delay", "soon"))
		assert.Error(t, cfg.Set("clear_delay", "-1s"))
		require.NoError(t, cfg.Set("clear_delay", "1500ms"))
		assert.Equal(t, 1500*time.Millisecond, cfg.ClearDelayDuration())
	})

	t.Run("unset restores default", func(t *testing.T) {
		require.NoError(t, cfg.Unset("backend"))
		assert.Equal(t, "auto", cfg.Backend)
	})
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"search_prefix", "add_marker", "clear_delay", "clear_policy",
		"backend", "wallet", "clipboard", "default_output",
	}, Keys())
}

func TestValidValues(t *testing.T) {
	assert.Equal(t, []string{"auto", "disabled", "file", "keyring"}, ValidValues("backend"))
	assert.Nil(t, ValidValues("wallet"))
}

func TestConfigPathUnderXDG(t *testing.T) {
	assert.Equal(t, "config.json5", filepath.Base(ConfigPath()))
	assert.Equal(t, AppName, filepath.Base(ConfigDir()))
	assert.Equal(t, AppName, filepath.Base(DataDir()))
}

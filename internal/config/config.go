package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds the runner configuration
type Config struct {
	SearchPrefix  string `json:"search_prefix,omitempty"`
	AddMarker     string `json:"add_marker,omitempty"`
	ClearDelay    string `json:"clear_delay,omitempty"`
	ClearPolicy   string `json:"clear_policy,omitempty"`
	Backend       string `json:"backend,omitempty"`
	Wallet        string `json:"wallet,omitempty"`
	Clipboard     string `json:"clipboard,omitempty"`
	DefaultOutput string `json:"default_output,omitempty"`
}

// Defaults returns the values used for keys missing from the config file.
func Defaults() Config {
	return Config{
		SearchPrefix:  "kwallet",
		AddMarker:     "kwallet-add",
		ClearDelay:    "5s",
		ClearPolicy:   "independent",
		Backend:       "auto",
		Wallet:        "default",
		Clipboard:     "auto",
		DefaultOutput: "auto",
	}
}

// allowed lists the accepted values for enumerated keys.
var allowed = map[string][]string{
	"clear_policy":   {"independent", "supersede"},
	"backend":        {"auto", "keyring", "file", "disabled"},
	"clipboard":      {"auto", "osc52", "command"},
	"default_output": {"auto", "json", "plain", "rich"},
}

// Load reads config from the XDG path, returns defaults if file doesn't exist
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. Missing keys take their default value.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := json5.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.merge(file)

	return &cfg, nil
}

// merge overwrites fields with the non-empty fields of other.
func (c *Config) merge(other Config) {
	dst := reflect.ValueOf(c).Elem()
	src := reflect.ValueOf(other)
	for i := 0; i < src.NumField(); i++ {
		if v := src.Field(i).String(); v != "" {
			dst.Field(i).SetString(v)
		}
	}
}

// Save writes the config to the XDG config path
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON (not JSON5 for writing - JSON is valid JSON5)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// field finds the struct field tagged with key.
func (c *Config) field(key string) (reflect.Value, bool) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		jsonTag := t.Field(i).Tag.Get("json")
		if jsonTag == key || jsonTag == key+",omitempty" {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Keys returns the config key names in declaration order
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, strings.TrimSuffix(t.Field(i).Tag.Get("json"), ",omitempty"))
	}
	return keys
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	f, ok := c.field(key)
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return f.String(), nil
}

// Set validates and sets a config value by key name. It does not save.
func (c *Config) Set(key, value string) error {
	f, ok := c.field(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	if err := Validate(key, value); err != nil {
		return err
	}
	f.SetString(value)
	return nil
}

// Unset restores a config value to its default. It does not save.
func (c *Config) Unset(key string) error {
	f, ok := c.field(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	defaults := Defaults()
	def, _ := defaults.field(key)
	f.SetString(def.String())
	return nil
}

// Validate checks a value for a key.
func Validate(key, value string) error {
	if key == "clear_delay" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid clear_delay %q: %w", value, err)
		}
		if d <= 0 {
			return fmt.Errorf("clear_delay must be positive")
		}
		return nil
	}

	values, ok := allowed[key]
	if !ok {
		return nil
	}
	for _, v := range values {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s. Valid values: %v", key, value, ValidValues(key))
}

// ValidValues returns the sorted accepted values for an enumerated key,
// or nil for free-form keys.
func ValidValues(key string) []string {
	values := append([]string(nil), allowed[key]...)
	sort.Strings(values)
	if len(values) == 0 {
		return nil
	}
	return values
}

// ClearDelayDuration parses ClearDelay, falling back to the default.
func (c *Config) ClearDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.ClearDelay)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

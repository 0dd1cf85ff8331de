// Package config loads the optional run configuration for depup.
//
// Configuration is load-or-default: a missing, unreadable, or malformed
// file yields the defaults, never an error crossing this boundary.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/skoenig/depup/pkg/errors"
)

// Config file names looked up in the scan root, in order.
const (
	JSONFileName = ".depuprc.json"
	TOMLFileName = ".depuprc.toml"
)

// DefaultConcurrency bounds the per-manifest lookup fan-out.
const DefaultConcurrency = 8

// Config holds the optional run configuration.
type Config struct {
	// Registry overrides the npm registry base URL.
	Registry string `json:"registry" toml:"registry"`

	// Ignore lists extra path globs excluded from discovery. These extend
	// the built-in exclusions; they never replace them.
	Ignore []string `json:"ignore" toml:"ignore"`

	// Caps maps package names to the highest major version an automatic
	// upgrade may reach. Packages without an entry are uncapped.
	Caps map[string]uint64 `json:"caps" toml:"caps"`

	// Install runs "npm install" after a manifest is written.
	Install bool `json:"install" toml:"install"`

	// Audit runs "npm audit fix" after a successful install.
	Audit bool `json:"audit" toml:"audit"`

	// Concurrency bounds concurrent registry lookups per manifest.
	Concurrency int `json:"concurrency" toml:"concurrency"`
}

// Default returns the configuration used when no config file applies.
func Default() Config {
	return Config{
		Caps:        map[string]uint64{},
		Concurrency: DefaultConcurrency,
	}
}

// Load reads the configuration from root. It tries the JSON file first and
// falls back to the TOML file. Any failure yields Default().
func Load(root string) Config {
	if cfg, ok := loadJSON(filepath.Join(root, JSONFileName)); ok {
		return normalize(cfg)
	}
	if cfg, ok := loadTOML(filepath.Join(root, TOMLFileName)); ok {
		return normalize(cfg)
	}
	return Default()
}

func loadJSON(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

func loadTOML(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

func normalize(cfg Config) Config {
	if cfg.Caps == nil {
		cfg.Caps = map[string]uint64{}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return cfg
}

// ParseCap parses a "name=major" flag value into a cap entry.
// Scoped package names ("@scope/name=2") are supported; only the last
// "=" separates the major version.
func ParseCap(s string) (string, uint64, error) {
	i := strings.LastIndexByte(s, '=')
	if i <= 0 || i == len(s)-1 {
		return "", 0, errors.New(errors.ErrCodeInvalidCap, "expected name=major, got %q", s)
	}
	name := strings.TrimSpace(s[:i])
	major, err := strconv.ParseUint(strings.TrimSpace(s[i+1:]), 10, 64)
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrCodeInvalidCap, err, "major version in %q", s)
	}
	return name, major, nil
}

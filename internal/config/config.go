package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	configFile          = "config.toml"
	defaultBaseURL      = "http://localhost:3001"
	defaultPollInterval = 5 * time.Second
	defaultSplitRatio   = 0.5
)

// FileConfig is the TOML file structure.
type FileConfig struct {
	BaseURL     string             `toml:"base_url"`
	Provider    string             `toml:"provider"`
	PollSeconds int                `toml:"poll_seconds"`
	LogLevel    string             `toml:"log_level"`
	DBPath      string             `toml:"db"`
	UI          UIConfig           `toml:"ui"`
	Profiles    map[string]Profile `toml:"profiles"`
}

// UIConfig holds UI-related settings persisted across runs.
type UIConfig struct {
	SplitRatio  float64 `toml:"split_ratio"`
	CompactMode bool    `toml:"compact_mode"`
	SidebarOpen bool    `toml:"sidebar_open"`
}

// Profile is a named backend profile.
type Profile struct {
	BaseURL  string `toml:"base_url"`
	Provider string `toml:"provider"`
}

// Config is the resolved runtime config after profile selection.
type Config struct {
	BaseURL      string
	Provider     string
	PollInterval time.Duration
	LogLevel     string
	DBPath       string

	// UI
	DefaultSplitRatio float64
	CompactMode       bool
	SidebarOpen       bool

	// For saving prefs back
	ConfigDir string
}

// LoadFileConfig loads config.toml from configDir.
// Returns a zero-value FileConfig (no error) if the file doesn't exist.
func LoadFileConfig(configDir string) (*FileConfig, error) {
	path := filepath.Join(configDir, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, err
	}

	var cfg FileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve merges a profile (by name) with global config and env vars into a runtime Config.
// If profileName is empty or not found, only global/env settings are used.
func (fc FileConfig) Resolve(profileName string, configDir string) Config {
	cfg := Config{
		BaseURL:   fc.BaseURL,
		Provider:  fc.Provider,
		LogLevel:  fc.LogLevel,
		DBPath:    fc.DBPath,
		ConfigDir: configDir,
	}

	cfg.PollInterval = time.Duration(fc.PollSeconds) * time.Second
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	// UI defaults
	cfg.DefaultSplitRatio = fc.UI.SplitRatio
	if cfg.DefaultSplitRatio == 0 {
		cfg.DefaultSplitRatio = defaultSplitRatio
	}
	cfg.CompactMode = fc.UI.CompactMode
	cfg.SidebarOpen = fc.UI.SidebarOpen

	// Apply profile overrides
	if p, ok := fc.Profiles[profileName]; ok {
		if p.BaseURL != "" {
			cfg.BaseURL = p.BaseURL
		}
		if p.Provider != "" {
			cfg.Provider = p.Provider
		}
	}

	// Fall back to env var for the backend URL if not set by file or profile
	if cfg.BaseURL == "" {
		if u := os.Getenv("BUSMON_URL"); u != "" {
			cfg.BaseURL = u
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.Provider == "" {
		cfg.Provider = "azure"
	}

	return cfg
}

// SaveUI reads the existing TOML (if any), updates the [ui] table, and writes back.
func SaveUI(configDir string, ui UIConfig) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(configDir, configFile)

	// Load existing config to preserve other fields
	cfg, err := LoadFileConfig(configDir)
	if err != nil {
		cfg = &FileConfig{}
	}
	cfg.UI = ui

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ProfileNames returns a sorted list of profile names.
func (fc FileConfig) ProfileNames() []string {
	names := make([]string, 0, len(fc.Profiles))
	for name := range fc.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

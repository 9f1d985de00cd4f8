package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "duoplay"

const (
	BackendXML    = "xml"
	BackendSQLite = "sqlite"
)

const (
	defaultMainPlaylistName = "All tracks"
	defaultRestartThreshold = 2.0
	defaultLogLevel         = "info"
)

var ErrUnknownBackend = errors.New("unknown store backend")

type Config struct {
	LibrarySources   []string `koanf:"library_sources"`    // paths to scan for music library
	Socket           string   `koanf:"socket"`             // unix socket between background and ui
	MainPlaylistName string   `koanf:"main_playlist_name"` // name of the read-only library playlist

	// Seconds into a track after which Previous restarts it
	RestartThresholdSeconds float64 `koanf:"restart_threshold_seconds"`

	Store StoreConfig `koanf:"store"`
	Log   LogConfig   `koanf:"log"`
}

// StoreConfig selects where user playlists are persisted.
type StoreConfig struct {
	Backend string `koanf:"backend"` // "xml" or "sqlite"
	Path    string `koanf:"path"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"` // empty logs to stderr
}

// Load reads the config files in priority order (last wins). A non-empty
// explicit path is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w", explicit, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	for i, src := range c.LibrarySources {
		c.LibrarySources[i] = expandPath(src)
	}

	c.MainPlaylistName = strings.TrimSpace(c.MainPlaylistName)
	if c.MainPlaylistName == "" {
		c.MainPlaylistName = defaultMainPlaylistName
	}
	if c.RestartThresholdSeconds <= 0 {
		c.RestartThresholdSeconds = defaultRestartThreshold
	}

	if c.Socket == "" {
		c.Socket = filepath.Join(xdg.RuntimeDir, appName+".sock")
	}
	c.Socket = expandPath(c.Socket)

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "":
		c.Store.Backend = BackendXML
	case BackendXML, BackendSQLite:
	default:
		return fmt.Errorf("%q: %w", c.Store.Backend, ErrUnknownBackend)
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath(c.Store.Backend)
	}
	c.Store.Path = expandPath(c.Store.Path)

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File != "" {
		c.Log.File = expandPath(c.Log.File)
	}
	return nil
}

// RestartThreshold returns the restart threshold as a duration.
func (c *Config) RestartThreshold() time.Duration {
	return time.Duration(c.RestartThresholdSeconds * float64(time.Second))
}

func defaultStorePath(backend string) string {
	name := "playlists.xml"
	if backend == BackendSQLite {
		name = "playlists.db"
	}
	return filepath.Join(xdg.DataHome, appName, name)
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/duoplay/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

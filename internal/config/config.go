package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Watcher modes.
const (
	// ModeTitle scrapes browser window titles for the playing track.
	ModeTitle = "title"
	// ModeHistory polls the authenticated listening history.
	ModeHistory = "history"
)

// Discord contains configuration for the Rich Presence connection.
type Discord struct {
	ClientID          string `toml:"client_id"`
	MaxRetries        int    `toml:"max_retries"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
}

// Watcher contains configuration for the now-playing signal source.
type Watcher struct {
	// Mode selects the signal source: "title" scrapes browser window titles,
	// "history" polls the authenticated YouTube Music listening history.
	Mode                  string   `toml:"mode"`
	UpdateIntervalSeconds int      `toml:"update_interval_seconds"`
	WindowPatterns        []string `toml:"window_patterns"`
}

// Cache contains configuration for the resolved-track cache file.
type Cache struct {
	Path            string `toml:"path"`
	DurationSeconds int    `toml:"duration_seconds"`
}

// Auth contains configuration for the YouTube Music credential file.
type Auth struct {
	HeadersFile string `toml:"headers_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for cadence.
//
// Configuration sections by subsystem:
//   - Discord: presence client id and reconnect policy
//   - Watcher: signal source mode and polling cadence
//   - Cache: resolved metadata cache file and TTL
//   - Auth: YouTube Music credential file (history mode)
//   - Logging: log format and level
//   - Paths: log directory (also holds the daemon lock file)
type Config struct {
	Discord Discord `toml:"discord"`
	Watcher Watcher `toml:"watcher"`
	Cache   Cache   `toml:"cache"`
	Auth    Auth    `toml:"auth"`
	Logging Logging `toml:"logging"`
	Paths   Paths   `toml:"paths"`
}

// UpdateInterval returns the poll interval as a duration.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.Watcher.UpdateIntervalSeconds) * time.Second
}

// RetryDelay returns the reconnect delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Discord.RetryDelaySeconds) * time.Second
}

// CacheDuration returns the cache entry TTL as a duration.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.Cache.DurationSeconds) * time.Second
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cadence/config.toml")
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ prefixes and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file is not an error;
// defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cadence.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories cadence needs at runtime.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Cache.Path)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWatcher()
	c.normalizeDiscord()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if strings.TrimSpace(c.Auth.HeadersFile) == "" {
		c.Auth.HeadersFile = defaultHeadersFile
	}
	if c.Auth.HeadersFile, err = expandPath(c.Auth.HeadersFile); err != nil {
		return fmt.Errorf("auth.headers_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatcher() {
	c.Watcher.Mode = strings.ToLower(strings.TrimSpace(c.Watcher.Mode))
	if c.Watcher.Mode == "" {
		c.Watcher.Mode = defaultWatcherMode
	}
	if c.Watcher.UpdateIntervalSeconds <= 0 {
		c.Watcher.UpdateIntervalSeconds = defaultUpdateIntervalSeconds
	}
	patterns := make([]string, 0, len(c.Watcher.WindowPatterns))
	for _, p := range c.Watcher.WindowPatterns {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	if len(patterns) == 0 {
		patterns = []string{"YouTube Music"}
	}
	c.Watcher.WindowPatterns = patterns
}

func (c *Config) normalizeDiscord() {
	c.Discord.ClientID = strings.TrimSpace(c.Discord.ClientID)
	if c.Discord.MaxRetries <= 0 {
		c.Discord.MaxRetries = defaultMaxRetries
	}
	if c.Discord.RetryDelaySeconds <= 0 {
		c.Discord.RetryDelaySeconds = defaultRetryDelaySeconds
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.DurationSeconds <= 0 {
		c.Cache.DurationSeconds = defaultCacheDurationSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

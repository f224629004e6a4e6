// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"cadence/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Path = filepath.Join(base, "tracks.json")
	cfg.Auth.HeadersFile = filepath.Join(base, "headers_auth.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMode sets the watcher mode on the test config.
func WithMode(mode string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Watcher.Mode = mode
	}
}

// WithClientID overrides the Discord application id on the test config.
func WithClientID(clientID string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Discord.ClientID = clientID
	}
}

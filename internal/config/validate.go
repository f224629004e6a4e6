package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDiscord(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDiscord() error {
	if c.Discord.ClientID == "" {
		return fmt.Errorf("discord.client_id is required (create a config with 'cadence config init')")
	}
	for _, r := range c.Discord.ClientID {
		if r < '0' || r > '9' {
			return fmt.Errorf("discord.client_id must be a numeric application id, got %q", c.Discord.ClientID)
		}
	}
	return nil
}

func (c *Config) validateWatcher() error {
	switch c.Watcher.Mode {
	case ModeTitle, ModeHistory:
		return nil
	default:
		return fmt.Errorf("watcher.mode must be \"title\" or \"history\", got %q", c.Watcher.Mode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

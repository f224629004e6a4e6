// Package config loads, normalizes, and validates cadence configuration.
//
// Configuration lives in a TOML file at ~/.config/cadence/config.toml (or a
// cadence.toml in the working directory). Every key has a default so cadence
// starts with no config file at all: title-scrape mode against a public
// Discord application id.
package config

// Package main hosts the cadence CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the presence daemon, inspects and
// clears the resolved-track cache, and scaffolds configuration. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
package main

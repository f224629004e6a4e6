// Package trackcache provides a local cache mapping track identity keys to
// previously resolved metadata.
//
// The cache eliminates repeat metadata searches for tracks the user replays.
// It is a pure performance optimization: a missing, corrupt, or unwritable
// cache file degrades to in-memory-only operation and never changes resolved
// output, only latency and call volume.
//
// # Storage
//
// A single JSON object keyed by the normalized identity string, stored at a
// configurable path (default: ~/.cache/cadence/tracks.json). Whole-file
// read/replace semantics; the file is human-readable and safe to delete.
//
// CLI commands for inspection and management:
//
//	cadence cache list    # List cached tracks
//	cadence cache clear   # Remove all entries
package trackcache

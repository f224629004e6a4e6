// Package session tracks which track is currently being published and
// debounces repeated observations of it. The tracker advances only when a
// publish actually succeeds, so a failed update is retried on the next tick
// instead of being silently dropped.
package session

// Package bridge wires the signal source, metadata resolution, and the
// presence channel into the polling daemon. A single goroutine runs the loop:
// one tick observes the current signal, reconciles it against the tracked
// session, and publishes or clears the presence before sleeping until the
// next tick.
package bridge

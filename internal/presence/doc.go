// Package presence publishes rich-presence activity to a locally running
// Discord client over its unix-socket IPC. Client speaks the wire protocol,
// Activity is the validated payload shape, and Channel layers connect/retry
// policy on top so the poll loop only ever sees booleans.
package presence

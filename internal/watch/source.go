package watch

import (
	"context"

	"cadence/internal/resolve"
)

// Signal is one observation of what is currently playing. A zero Signal means
// nothing is playing.
type Signal struct {
	// Present reports whether a playing track was observed this tick.
	Present bool

	// Identity is the dedup key for change detection. Title mode derives
	// it from the parsed hints; history mode uses the provider's track id.
	Identity string

	// SongHint and ArtistHint are the parsed title fragments feeding
	// metadata resolution. Unset in history mode.
	SongHint   string
	ArtistHint string

	// Track carries pre-attributed metadata when the source already knows
	// it (history mode). When set, resolution is skipped.
	Track *resolve.TrackInfo
}

// Source yields now-playing signals, one per poll tick.
type Source interface {
	// Poll observes the current playback state. A transient inability to
	// observe (no matching window, empty history) is not an error; errors
	// are reserved for failures the loop must react to, such as expired
	// credentials.
	Poll(ctx context.Context) (Signal, error)
}

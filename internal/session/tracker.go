package session

import (
	"log/slog"
	"time"

	"cadence/internal/logging"
)

// Transition classifies what an observed identity means relative to the
// currently published track.
type Transition string

const (
	// TransitionNewTrack means a different track is playing and the
	// presence should be resolved and published.
	TransitionNewTrack Transition = "new_track"
	// TransitionNoChange means the same track is still playing; the tick
	// is a no-op.
	TransitionNoChange Transition = "no_change"
	// TransitionStopped means playback ended and the published presence
	// should be cleared.
	TransitionStopped Transition = "stopped"
)

// Tracker owns the currently published track identity and its start time.
// Observe classifies a tick; the caller commits the new identity only after
// the publish succeeds, so failed publishes are retried on the next tick.
type Tracker struct {
	logger *slog.Logger
	now    func() time.Time

	current   string
	startedAt time.Time
}

// NewTracker creates a tracker in the idle state.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{
		logger: logging.NewComponentLogger(logger, "session"),
		now:    time.Now,
	}
}

// Observe classifies the identity seen this tick. An empty identity means no
// track is playing. Observe never mutates state.
func (t *Tracker) Observe(identity string) Transition {
	switch {
	case identity == "" && t.current == "":
		return TransitionNoChange
	case identity == "":
		return TransitionStopped
	case identity == t.current:
		return TransitionNoChange
	default:
		return TransitionNewTrack
	}
}

// Commit records identity as the published track and resets the start time.
// Call it only after the corresponding publish succeeded.
func (t *Tracker) Commit(identity string) {
	t.current = identity
	t.startedAt = t.now()
	t.logger.Debug("track committed",
		logging.String("identity", identity),
		logging.Int64("started_at", t.startedAt.Unix()))
}

// ClearCurrent returns the tracker to idle after the presence was cleared.
func (t *Tracker) ClearCurrent() {
	t.current = ""
	t.startedAt = time.Time{}
}

// Current returns the identity of the published track, or "" when idle.
func (t *Tracker) Current() string {
	return t.current
}

// StartedAt returns when the current track was first published. Zero while
// idle.
func (t *Tracker) StartedAt() time.Time {
	return t.startedAt
}

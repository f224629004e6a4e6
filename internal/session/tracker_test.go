package session

import (
	"testing"
	"time"

	"cadence/internal/logging"
)

func newTestTracker(t *testing.T, now time.Time) *Tracker {
	t.Helper()
	tracker := NewTracker(logging.NewNop())
	tracker.now = func() time.Time { return now }
	return tracker
}

func TestObserveFirstTrack(t *testing.T) {
	tracker := newTestTracker(t, time.Unix(1000, 0))

	if got := tracker.Observe("harvest|opeth"); got != TransitionNewTrack {
		t.Errorf("Observe = %q, want %q", got, TransitionNewTrack)
	}
	if tracker.Current() != "" {
		t.Error("Observe mutated state before Commit")
	}
}

func TestObserveDebouncesRepeatedIdentity(t *testing.T) {
	tracker := newTestTracker(t, time.Unix(1000, 0))
	tracker.Commit("harvest|opeth")

	for i := 0; i < 5; i++ {
		if got := tracker.Observe("harvest|opeth"); got != TransitionNoChange {
			t.Fatalf("tick %d: Observe = %q, want %q", i, got, TransitionNoChange)
		}
	}
}

func TestObserveStopped(t *testing.T) {
	tracker := newTestTracker(t, time.Unix(1000, 0))
	tracker.Commit("harvest|opeth")

	if got := tracker.Observe(""); got != TransitionStopped {
		t.Errorf("Observe = %q, want %q", got, TransitionStopped)
	}

	tracker.ClearCurrent()

	// Repeated absence while already idle is a no-op.
	if got := tracker.Observe(""); got != TransitionNoChange {
		t.Errorf("Observe after clear = %q, want %q", got, TransitionNoChange)
	}
}

func TestCommitResetsStartTime(t *testing.T) {
	tracker := newTestTracker(t, time.Unix(1000, 0))
	tracker.Commit("harvest|opeth")

	if got, want := tracker.StartedAt(), time.Unix(1000, 0); !got.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", got, want)
	}

	tracker.now = func() time.Time { return time.Unix(2000, 0) }
	tracker.Commit("deliverance|opeth")

	if got, want := tracker.StartedAt(), time.Unix(2000, 0); !got.Equal(want) {
		t.Errorf("StartedAt after new track = %v, want %v", got, want)
	}
	if got, want := tracker.Current(), "deliverance|opeth"; got != want {
		t.Errorf("Current = %q, want %q", got, want)
	}
}

func TestFailedPublishLeavesStateUntouched(t *testing.T) {
	tracker := newTestTracker(t, time.Unix(1000, 0))
	tracker.Commit("harvest|opeth")

	// A new identity is observed but never committed (publish failed).
	if got := tracker.Observe("deliverance|opeth"); got != TransitionNewTrack {
		t.Fatalf("Observe = %q, want %q", got, TransitionNewTrack)
	}

	// Next tick sees the same new identity again and still reports a change.
	if got := tracker.Observe("deliverance|opeth"); got != TransitionNewTrack {
		t.Errorf("Observe after failed publish = %q, want %q", got, TransitionNewTrack)
	}
	if got, want := tracker.Current(), "harvest|opeth"; got != want {
		t.Errorf("Current = %q, want %q", got, want)
	}
}

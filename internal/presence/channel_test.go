package presence

import (
	"context"
	"errors"
	"log/slog"
	"syscall"
	"testing"
	"time"

	"cadence/internal/logging"
)

type fakeConn struct {
	setErr   error
	clearErr error

	setCalls   int
	clearCalls int
	closeCalls int
}

func (f *fakeConn) SetActivity(activity Activity) error { f.setCalls++; return f.setErr }
func (f *fakeConn) ClearActivity() error                { f.clearCalls++; return f.clearErr }
func (f *fakeConn) Close() error                        { f.closeCalls++; return nil }

func newTestChannel(t *testing.T, dialErrs ...error) (*Channel, *fakeConn) {
	t.Helper()

	conn := &fakeConn{}
	ch := NewChannel("123456789", 3, time.Millisecond, logging.NewNop())

	attempts := 0
	ch.dial = func(clientID string, logger *slog.Logger) (activityConn, error) {
		attempts++
		if attempts <= len(dialErrs) && dialErrs[attempts-1] != nil {
			return nil, dialErrs[attempts-1]
		}
		return conn, nil
	}

	return ch, conn
}

func testActivity(t *testing.T) Activity {
	t.Helper()
	return Activity{
		Details: "🎵 Harvest",
		State:   "👤 Opeth",
		Start:   time.Unix(1700000000, 0),
		Button:  Button{Label: "Listen", URL: "https://music.youtube.com/watch?v=vid123"},
	}
}

func TestConnectRetriesRetryableErrors(t *testing.T) {
	ch, _ := newTestChannel(t, ErrNoSocket, syscall.ECONNREFUSED)

	if !ch.Connect(context.Background()) {
		t.Fatal("Connect failed despite a successful third attempt")
	}
	if got := ch.Retries(); got != 0 {
		t.Errorf("Retries = %d after success, want 0", got)
	}
	if !ch.Connected() {
		t.Error("Connected = false after successful Connect")
	}
}

func TestConnectAbortsOnNonRetryableError(t *testing.T) {
	fatal := errors.New("bad client id")
	ch, _ := newTestChannel(t, fatal, nil, nil)

	if ch.Connect(context.Background()) {
		t.Fatal("Connect succeeded, want immediate abort on non-retryable error")
	}
	if got := ch.Retries(); got != 1 {
		t.Errorf("Retries = %d, want 1 (one failed attempt)", got)
	}
}

func TestConnectExhaustsAttempts(t *testing.T) {
	ch, _ := newTestChannel(t, ErrNoSocket, ErrNoSocket, ErrNoSocket)

	if ch.Connect(context.Background()) {
		t.Fatal("Connect succeeded, want failure after exhausting attempts")
	}
	if got := ch.Retries(); got != 3 {
		t.Errorf("Retries = %d, want 3", got)
	}
}

func TestPublishSuccess(t *testing.T) {
	ch, conn := newTestChannel(t)
	if !ch.Connect(context.Background()) {
		t.Fatal("Connect failed")
	}

	if !ch.Publish(testActivity(t)) {
		t.Fatal("Publish returned false")
	}
	if conn.setCalls != 1 {
		t.Errorf("SetActivity called %d times, want 1", conn.setCalls)
	}
}

func TestPublishPipeErrorDropsConnection(t *testing.T) {
	ch, conn := newTestChannel(t)
	if !ch.Connect(context.Background()) {
		t.Fatal("Connect failed")
	}

	conn.setErr = syscall.EPIPE
	if ch.Publish(testActivity(t)) {
		t.Fatal("Publish returned true on broken pipe")
	}
	if ch.Connected() {
		t.Error("connection kept after broken pipe")
	}
	if got := ch.Retries(); got == 0 {
		t.Error("Retries = 0 after broken pipe, want nonzero to force reconnect")
	}
}

func TestPublishApplicationErrorKeepsConnection(t *testing.T) {
	ch, conn := newTestChannel(t)
	if !ch.Connect(context.Background()) {
		t.Fatal("Connect failed")
	}

	conn.setErr = errors.New("discord error 4000: invalid activity")

	if ch.Publish(testActivity(t)) {
		t.Fatal("Publish returned true on rejected payload")
	}
	if !ch.Connected() {
		t.Error("connection dropped for a non-transport error")
	}
}

func TestPublishWithoutConnection(t *testing.T) {
	ch, _ := newTestChannel(t)
	if ch.Publish(testActivity(t)) {
		t.Fatal("Publish returned true without a connection")
	}
}

func TestClearAndCloseAreBestEffort(t *testing.T) {
	ch, conn := newTestChannel(t)
	if !ch.Connect(context.Background()) {
		t.Fatal("Connect failed")
	}

	conn.clearErr = errors.New("already gone")
	ch.Clear() // must not panic
	ch.Close()
	ch.Close() // idempotent

	if conn.closeCalls != 1 {
		t.Errorf("Close called %d times on the connection, want 1", conn.closeCalls)
	}
}

func TestConnectHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch, _ := newTestChannel(t, ErrNoSocket, ErrNoSocket, ErrNoSocket)
	if ch.Connect(ctx) {
		t.Fatal("Connect succeeded with a cancelled context")
	}
}

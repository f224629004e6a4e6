package presence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"cadence/internal/logging"
)

// activityConn is the connection surface Channel drives. Satisfied by *Client
// and by test fakes.
type activityConn interface {
	SetActivity(activity Activity) error
	ClearActivity() error
	Close() error
}

// Channel layers connect/retry policy over the IPC client. Publish and Clear
// never return errors outward; the poll loop reacts to booleans and to the
// Retries counter instead.
type Channel struct {
	clientID   string
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger

	dial func(clientID string, logger *slog.Logger) (activityConn, error)

	conn    activityConn
	retries int
}

// NewChannel creates a disconnected channel for the given application client
// id. Call Connect before publishing.
func NewChannel(clientID string, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *Channel {
	return &Channel{
		clientID:   clientID,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logging.NewComponentLogger(logger, "presence"),
		dial: func(clientID string, logger *slog.Logger) (activityConn, error) {
			return Dial(clientID, logger)
		},
	}
}

// Connect establishes the IPC connection, retrying retryable failures up to
// the configured attempt limit with a fixed delay between attempts. A
// non-retryable failure aborts immediately. Success resets the retry counter.
func (ch *Channel) Connect(ctx context.Context) bool {
	for attempt := 1; attempt <= ch.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return false
		}

		conn, err := ch.dial(ch.clientID, ch.logger)
		if err == nil {
			ch.conn = conn
			ch.retries = 0
			ch.logger.Info("presence channel connected",
				logging.String(logging.FieldEventType, "presence_connected"),
				logging.Int("attempt", attempt))
			return true
		}

		ch.retries++

		if !retryableConnectError(err) {
			ch.logger.Error("presence connect failed",
				logging.String(logging.FieldEventType, "presence_connect_failed"),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the configured client id is valid"))
			return false
		}

		ch.logger.Warn("presence connect attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", ch.maxRetries),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "is Discord running?"))

		if attempt < ch.maxRetries && !sleepContext(ctx, ch.retryDelay) {
			return false
		}
	}
	return false
}

// Connected reports whether a live connection is held.
func (ch *Channel) Connected() bool {
	return ch.conn != nil
}

// Retries returns the consecutive connection failure count. Nonzero means the
// caller should reconnect before the next publish.
func (ch *Channel) Retries() int {
	return ch.retries
}

// Publish sends the activity. Failures are logged and reported as false so
// the caller can leave its track state untouched; connection-class failures
// also drop the connection so the next tick reconnects.
func (ch *Channel) Publish(activity Activity) bool {
	if ch.conn == nil {
		return false
	}

	if err := ch.conn.SetActivity(activity); err != nil {
		ch.logger.Warn("presence publish failed",
			logging.String(logging.FieldEventType, "presence_publish_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "status update retried next tick"))
		if connectionError(err) {
			ch.dropConnection()
		}
		return false
	}

	ch.logger.Debug("presence published",
		logging.String("details", activity.Details),
		logging.String("state", activity.State))
	return true
}

// Clear removes the published presence. Best-effort.
func (ch *Channel) Clear() {
	if ch.conn == nil {
		return
	}
	if err := ch.conn.ClearActivity(); err != nil {
		ch.logger.Warn("presence clear failed", logging.Error(err))
		if connectionError(err) {
			ch.dropConnection()
		}
		return
	}
	ch.logger.Debug("presence cleared")
}

// Close tears down the connection. Best-effort; safe to call repeatedly.
func (ch *Channel) Close() {
	if ch.conn == nil {
		return
	}
	if err := ch.conn.Close(); err != nil {
		ch.logger.Debug("presence close failed", logging.Error(err))
	}
	ch.conn = nil
}

func (ch *Channel) dropConnection() {
	_ = ch.conn.Close()
	ch.conn = nil
	ch.retries++
}

// retryableConnectError reports whether a connect failure is worth another
// attempt: the socket not existing yet or the client refusing/dropping the
// connection. Anything else (a protocol rejection, a bad client id) is not.
func retryableConnectError(err error) bool {
	return errors.Is(err, ErrNoSocket) || connectionError(err)
}

// connectionError reports whether err indicates the transport itself failed
// rather than the request being rejected.
func connectionError(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}

// sleepContext sleeps for d unless ctx is cancelled first. Returns false on
// cancellation.
func sleepContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

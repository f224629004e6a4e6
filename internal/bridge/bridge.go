package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"cadence/internal/config"
	"cadence/internal/logging"
	"cadence/internal/presence"
	"cadence/internal/resolve"
	"cadence/internal/session"
	"cadence/internal/trackcache"
	"cadence/internal/watch"
	"cadence/internal/ytm"
)

// presenceChannel is the publishing surface the loop drives. Satisfied by
// *presence.Channel.
type presenceChannel interface {
	Connect(ctx context.Context) bool
	Connected() bool
	Retries() int
	Publish(activity presence.Activity) bool
	Clear()
	Close()
}

// metadataResolver turns hints into publishable metadata. Satisfied by
// *resolve.Resolver.
type metadataResolver interface {
	Resolve(ctx context.Context, songHint, artistHint string) resolve.Resolution
}

// Bridge owns the poll loop and every component it drives. Construct with
// New, run with Run; all state is touched from the loop goroutine only.
type Bridge struct {
	cfg    *config.Config
	logger *slog.Logger

	source   watch.Source
	resolver metadataResolver
	channel  presenceChannel
	tracker  *session.Tracker
	cache    *trackcache.Cache
	creds    *ytm.Credentials

	lockPath string
	lock     *flock.Flock

	interval time.Duration
	now      func() time.Time
}

// New constructs a bridge from configuration. In history mode the credential
// file must already exist; run the provider's auth bootstrap first.
func New(cfg *config.Config, logger *slog.Logger) (*Bridge, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("bridge requires config and logger")
	}

	cache := trackcache.New(cfg.Cache.Path, cfg.CacheDuration(), logger)

	b := &Bridge{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "bridge"),
		channel:  presence.NewChannel(cfg.Discord.ClientID, cfg.Discord.MaxRetries, cfg.RetryDelay(), logger),
		tracker:  session.NewTracker(logger),
		cache:    cache,
		lockPath: filepath.Join(cfg.Paths.LogDir, "cadence.lock"),
		interval: cfg.UpdateInterval(),
		now:      time.Now,
	}
	b.lock = flock.New(b.lockPath)

	switch cfg.Watcher.Mode {
	case config.ModeTitle:
		b.source = watch.NewTitleSource(cfg.Watcher.WindowPatterns, logger)
		b.resolver = resolve.NewResolver(ytm.NewSearchClient(logger), cache, logger)
	case config.ModeHistory:
		creds, err := ytm.LoadCredentials(cfg.Auth.HeadersFile)
		if err != nil {
			if errors.Is(err, ytm.ErrNoCredentials) {
				return nil, fmt.Errorf("history mode needs credentials: run `ytmusicapi browser` and save the headers to %s", cfg.Auth.HeadersFile)
			}
			return nil, fmt.Errorf("load credentials: %w", err)
		}
		b.creds = creds
		b.source = watch.NewHistorySource(ytm.NewHistoryClient(creds, logger), logger)
	default:
		return nil, fmt.Errorf("unknown watcher mode %q", cfg.Watcher.Mode)
	}

	return b, nil
}

// Run acquires the instance lock, connects the presence channel, and polls
// until ctx is cancelled. Initialization failures return before the first
// tick; cancellation returns nil after cleanup.
func (b *Bridge) Run(ctx context.Context) error {
	ok, err := b.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cadence instance is already running")
	}
	defer func() {
		if err := b.lock.Unlock(); err != nil {
			b.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	if !b.channel.Connect(ctx) {
		return errors.New("presence channel unreachable, giving up")
	}

	b.logger.Info("cadence started",
		logging.String(logging.FieldEventType, "bridge_started"),
		logging.String("mode", b.cfg.Watcher.Mode),
		logging.Duration("interval", b.interval),
		logging.String("lock", b.lockPath))

	defer b.cleanup()

	for {
		if err := b.tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(b.interval):
		}
	}
}

// tick runs one reconciliation pass. A nil return keeps the loop going;
// errors are fatal to the loop.
func (b *Bridge) tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// A dropped or never-established connection forces a reconnect before
	// anything else; on continued failure the tick is abandoned and track
	// state stays untouched.
	if !b.channel.Connected() || b.channel.Retries() > 0 {
		if !b.channel.Connect(ctx) {
			b.logger.Warn("presence channel still unreachable, deferring tick",
				logging.Int("retries", b.channel.Retries()))
			return ctx.Err()
		}
	}

	signal, err := b.source.Poll(ctx)
	if err != nil {
		if errors.Is(err, ytm.ErrAuthExpired) {
			return b.handleAuthExpired()
		}
		return err
	}

	identity := ""
	if signal.Present {
		identity = signal.Identity
	}

	switch b.tracker.Observe(identity) {
	case session.TransitionNewTrack:
		b.publishTrack(ctx, identity, signal)
	case session.TransitionStopped:
		b.channel.Clear()
		b.tracker.ClearCurrent()
		b.logger.Info("playback stopped",
			logging.String(logging.FieldEventType, "presence_cleared"))
	case session.TransitionNoChange:
	}

	return nil
}

func (b *Bridge) publishTrack(ctx context.Context, identity string, signal watch.Signal) {
	var track resolve.TrackInfo
	if signal.Track != nil {
		track = *signal.Track
	} else {
		track = b.resolver.Resolve(ctx, signal.SongHint, signal.ArtistHint).Track
	}

	activity, err := presence.NewActivity(track, b.now())
	if err != nil {
		b.logger.Warn("skipping unpublishable track",
			logging.String("identity", identity),
			logging.Error(err))
		return
	}

	if !b.channel.Publish(activity) {
		// Identity stays uncommitted so the next tick retries; the
		// resolution is cached, so the retry is cheap.
		return
	}

	b.tracker.Commit(identity)
	b.logger.Info("now playing",
		logging.String(logging.FieldEventType, "presence_published"),
		logging.String("song", track.SongName),
		logging.String("artist", track.ArtistName))
}

// handleAuthExpired deletes the stale credential file and stops the loop so
// the user can re-run the auth bootstrap.
func (b *Bridge) handleAuthExpired() error {
	b.logger.Error("history credentials expired",
		logging.String(logging.FieldEventType, "auth_expired"),
		logging.String(logging.FieldErrorHint, "re-run `ytmusicapi browser` to refresh the headers file"))
	if b.creds != nil {
		if err := b.creds.Invalidate(); err != nil {
			b.logger.Warn("failed to remove stale credentials", logging.Error(err))
		}
	}
	return errors.New("history credentials expired")
}

// cleanup clears the published presence and flushes state. Every step is
// best-effort; shutdown must never fail.
func (b *Bridge) cleanup() {
	b.channel.Clear()
	b.channel.Close()
	b.cache.Save()
	b.logger.Info("cadence stopped",
		logging.String(logging.FieldEventType, "bridge_stopped"))
}

package watch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cadence/internal/logging"
	"cadence/internal/resolve"
	"cadence/internal/ytm"
)

// HistorySource reads the most recent listening-history entry. History
// records arrive fully attributed, so the signal carries ready metadata and
// the track id doubles as the identity.
type HistorySource struct {
	provider ytm.HistoryProvider
	logger   *slog.Logger
}

var _ Source = (*HistorySource)(nil)

// NewHistorySource creates a history-backed source.
func NewHistorySource(provider ytm.HistoryProvider, logger *slog.Logger) *HistorySource {
	return &HistorySource{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "watch"),
	}
}

// Poll fetches the newest history entry. Auth expiry propagates so the loop
// can trigger re-authentication; other fetch failures degrade to an absent
// signal.
func (s *HistorySource) Poll(ctx context.Context) (Signal, error) {
	entry, ok, err := s.provider.Latest(ctx)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, ytm.ErrAuthExpired) {
			return Signal{}, err
		}
		s.logger.Warn("history fetch failed",
			logging.String(logging.FieldEventType, "history_fetch_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "presence treated as not playing this tick"))
		return Signal{}, nil
	}
	if !ok || entry.VideoID == "" {
		return Signal{}, nil
	}

	return Signal{
		Present:  true,
		Identity: entry.VideoID,
		Track: &resolve.TrackInfo{
			SongName:   entry.Title,
			ArtistName: artistOrFallback(entry.Artists),
			ArtworkURL: entry.ArtworkURL,
			ListenURL:  ytm.WatchURL(entry.VideoID),
		},
	}, nil
}

func artistOrFallback(artists []string) string {
	if joined := strings.Join(artists, ", "); joined != "" {
		return joined
	}
	return resolve.FallbackArtist
}

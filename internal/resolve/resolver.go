package resolve

import (
	"context"
	"log/slog"
	"strings"

	"cadence/internal/logging"
	"cadence/internal/trackcache"
	"cadence/internal/ytm"
)

// searchLimit caps the first, songs-filtered search pass.
const searchLimit = 3

// FallbackArtist is the artist name published when no match exists and the
// window title carried no usable artist hint.
const FallbackArtist = "Unknown Artist"

// Outcome records how a resolution was produced.
type Outcome string

const (
	// OutcomeResolved means a search candidate (or cached entry) supplied
	// the metadata.
	OutcomeResolved Outcome = "resolved"
	// OutcomeFallback means no candidate matched and the metadata was
	// synthesized from the hints alone.
	OutcomeFallback Outcome = "fallback"
)

// TrackInfo is the publish-ready metadata for one track.
type TrackInfo struct {
	SongName        string
	ArtistName      string
	ArtworkURL      string
	ListenURL       string
	DurationSeconds int
}

// Resolution is the result of resolving a pair of hints. Track is always
// populated; Resolve never fails.
type Resolution struct {
	Track     TrackInfo
	Outcome   Outcome
	FromCache bool
}

// Key returns the cache key for a song/artist pair. Keys are case-insensitive
// so that cosmetic title changes do not defeat the cache.
func Key(song, artist string) string {
	return strings.ToLower(strings.TrimSpace(song)) + "|" + strings.ToLower(strings.TrimSpace(artist))
}

// Resolver turns title hints into track metadata, consulting the cache before
// searching.
type Resolver struct {
	searcher ytm.Searcher
	cache    *trackcache.Cache
	logger   *slog.Logger
}

// NewResolver creates a resolver. cache may be nil to disable caching.
func NewResolver(searcher ytm.Searcher, cache *trackcache.Cache, logger *slog.Logger) *Resolver {
	return &Resolver{
		searcher: searcher,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "resolve"),
	}
}

// Resolve produces metadata for the hinted track. Cached entries are returned
// as-is; otherwise a songs-filtered search runs first, an unrestricted search
// second, and a synthesized fallback guarantees a usable result when both come
// up empty. Search errors are logged and treated as empty results. Only real
// matches are written back to the cache.
func (r *Resolver) Resolve(ctx context.Context, songHint, artistHint string) Resolution {
	key := Key(songHint, artistHint)

	if r.cache != nil {
		if entry, ok := r.cache.Get(key); ok {
			r.logger.Debug("cache hit", logging.String("key", key))
			return Resolution{
				Track: TrackInfo{
					SongName:        entry.SongName,
					ArtistName:      entry.ArtistName,
					ArtworkURL:      entry.ArtworkURL,
					ListenURL:       entry.ListenURL,
					DurationSeconds: entry.Duration,
				},
				Outcome:   OutcomeResolved,
				FromCache: true,
			}
		}
	}

	query := buildQuery(songHint, artistHint)

	candidates := r.searchSongs(ctx, query)
	if len(candidates) == 0 {
		candidates = r.searchAny(ctx, query)
	}

	if len(candidates) == 0 {
		r.logger.Info("no search results, using fallback metadata",
			logging.String(logging.FieldEventType, "resolve_fallback"),
			logging.String("query", query))
		return Resolution{Track: fallbackTrack(songHint, artistHint, query), Outcome: OutcomeFallback}
	}

	best := pickBest(candidates, songHint, artistHint)
	track := TrackInfo{
		SongName:        best.Title,
		ArtistName:      best.ArtistNames(),
		ArtworkURL:      best.ArtworkURL,
		ListenURL:       ytm.WatchURL(best.VideoID),
		DurationSeconds: best.DurationSeconds,
	}
	if track.SongName == "" {
		track.SongName = strings.TrimSpace(songHint)
	}
	if track.ArtistName == "" {
		track.ArtistName = fallbackArtist(artistHint)
	}

	if r.cache != nil {
		r.cache.Set(key, trackcache.Entry{
			SongName:   track.SongName,
			ArtistName: track.ArtistName,
			ArtworkURL: track.ArtworkURL,
			ListenURL:  track.ListenURL,
			Duration:   track.DurationSeconds,
		})
	}

	r.logger.Debug("resolved track",
		logging.String("song", track.SongName),
		logging.String("artist", track.ArtistName),
		logging.String("video_id", best.VideoID))

	return Resolution{Track: track, Outcome: OutcomeResolved}
}

func (r *Resolver) searchSongs(ctx context.Context, query string) []ytm.Candidate {
	candidates, err := r.searcher.SearchSongs(ctx, query, searchLimit)
	if err != nil {
		r.logger.Warn("songs search failed",
			logging.String(logging.FieldEventType, "search_failed"),
			logging.String("query", query),
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to unrestricted search"))
		return nil
	}
	return candidates
}

func (r *Resolver) searchAny(ctx context.Context, query string) []ytm.Candidate {
	candidates, err := r.searcher.SearchAny(ctx, query, searchLimit)
	if err != nil {
		r.logger.Warn("unrestricted search failed",
			logging.String(logging.FieldEventType, "search_failed"),
			logging.String("query", query),
			logging.Error(err),
			logging.String(logging.FieldImpact, "presence will use synthesized metadata"))
		return nil
	}
	return candidates
}

func buildQuery(songHint, artistHint string) string {
	song := strings.TrimSpace(songHint)
	artist := strings.TrimSpace(artistHint)
	if artist == "" {
		return song
	}
	return song + " " + artist
}

func fallbackTrack(songHint, artistHint, query string) TrackInfo {
	return TrackInfo{
		SongName:   strings.TrimSpace(songHint),
		ArtistName: fallbackArtist(artistHint),
		ListenURL:  ytm.SearchURL(query),
	}
}

func fallbackArtist(artistHint string) string {
	if artist := strings.TrimSpace(artistHint); artist != "" {
		return artist
	}
	return FallbackArtist
}

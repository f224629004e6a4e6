package ytm

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/raitonoberu/ytmusic"

	"cadence/internal/logging"
)

// Kind classifies a search candidate. Songs carry richer, canonical metadata
// than plain videos and score higher during matching.
type Kind string

const (
	KindSong  Kind = "song"
	KindVideo Kind = "video"
)

// Candidate is one metadata search result.
type Candidate struct {
	VideoID         string
	Title           string
	Artists         []string
	DurationSeconds int
	ArtworkURL      string
	Kind            Kind
}

// ArtistNames returns the candidate's artists joined for display.
func (c Candidate) ArtistNames() string {
	return strings.Join(c.Artists, ", ")
}

// Searcher defines the metadata search operations used by resolution.
type Searcher interface {
	// SearchSongs runs a songs-filtered search.
	SearchSongs(ctx context.Context, query string, limit int) ([]Candidate, error)
	// SearchAny runs an unrestricted search across songs and videos.
	SearchAny(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// SearchClient implements Searcher against the public YouTube Music search.
type SearchClient struct {
	logger *slog.Logger
}

var _ Searcher = (*SearchClient)(nil)

// NewSearchClient creates a search client.
func NewSearchClient(logger *slog.Logger) *SearchClient {
	return &SearchClient{logger: logging.NewComponentLogger(logger, "ytm-search")}
}

// SearchSongs runs a songs-filtered search and returns at most limit candidates.
func (s *SearchClient) SearchSongs(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	result, err := ytmusic.TrackSearch(query).Next()
	if err != nil {
		return nil, fmt.Errorf("track search %q: %w", query, err)
	}

	candidates := make([]Candidate, 0, len(result.Tracks))
	for _, track := range result.Tracks {
		if track == nil || track.VideoID == "" {
			continue
		}
		candidates = append(candidates, trackCandidate(track))
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}

	s.logger.Debug("songs search completed",
		logging.String("query", query),
		logging.Int("candidates", len(candidates)))

	return candidates, nil
}

// SearchAny runs an unrestricted search. Song results come first, plain video
// results after them; together they are capped at limit.
func (s *SearchClient) SearchAny(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	result, err := ytmusic.Search(query).Next()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var candidates []Candidate
	for _, track := range result.Tracks {
		if track == nil || track.VideoID == "" {
			continue
		}
		candidates = append(candidates, trackCandidate(track))
		if limit > 0 && len(candidates) >= limit {
			return candidates, nil
		}
	}
	for _, video := range result.Videos {
		if video == nil || video.VideoID == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			VideoID: video.VideoID,
			Title:   video.Title,
			Kind:    KindVideo,
		})
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}

	s.logger.Debug("unrestricted search completed",
		logging.String("query", query),
		logging.Int("candidates", len(candidates)))

	return candidates, nil
}

func trackCandidate(track *ytmusic.TrackItem) Candidate {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist.Name != "" {
			artists = append(artists, artist.Name)
		}
	}

	artwork := ""
	if len(track.Thumbnails) > 0 {
		artwork = StripArtworkSizing(track.Thumbnails[len(track.Thumbnails)-1].URL)
	}

	return Candidate{
		VideoID:         track.VideoID,
		Title:           track.Title,
		Artists:         artists,
		DurationSeconds: track.Duration,
		ArtworkURL:      artwork,
		Kind:            KindSong,
	}
}

// WatchURL returns the canonical listen link for a video id.
func WatchURL(videoID string) string {
	return "https://music.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// SearchURL returns a link to the YouTube Music search page for query. Used
// as the fallback listen link when no direct match exists.
func SearchURL(query string) string {
	return "https://music.youtube.com/search?q=" + url.QueryEscape(query)
}

// StripArtworkSizing removes the "=wNNN-hNNN" sizing suffix from a thumbnail
// URL so Discord fetches the original resolution.
func StripArtworkSizing(artworkURL string) string {
	if idx := strings.Index(artworkURL, "="); idx > 0 {
		return artworkURL[:idx]
	}
	return artworkURL
}

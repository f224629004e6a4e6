package ytm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cadence/internal/logging"
)

// ErrAuthExpired indicates the stored credentials were rejected. The caller
// should invalidate them to force a re-bootstrap.
var ErrAuthExpired = errors.New("youtube music authentication expired")

const browseEndpoint = "https://music.youtube.com/youtubei/v1/browse"

// HistoryEntry is the most recent record from the listening history. Unlike a
// scraped window title it is fully attributed, so no search pass is needed.
type HistoryEntry struct {
	VideoID    string
	Title      string
	Artists    []string
	ArtworkURL string
}

// ArtistNames returns the entry's artists joined for display.
func (e HistoryEntry) ArtistNames() string {
	return strings.Join(e.Artists, ", ")
}

// HistoryProvider fetches the latest listening-history entry.
type HistoryProvider interface {
	// Latest returns the newest history entry, or ok=false when the history
	// is empty. ErrAuthExpired signals rejected credentials.
	Latest(ctx context.Context) (HistoryEntry, bool, error)
}

// HistoryClient implements HistoryProvider against the youtubei browse API.
type HistoryClient struct {
	creds      *Credentials
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ HistoryProvider = (*HistoryClient)(nil)

// NewHistoryClient creates a history client using the given credentials.
func NewHistoryClient(creds *Credentials, logger *slog.Logger) *HistoryClient {
	return &HistoryClient{
		creds:      creds,
		endpoint:   browseEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.NewComponentLogger(logger, "ytm-history"),
	}
}

// Latest fetches the listening history and returns its newest entry.
func (h *HistoryClient) Latest(ctx context.Context) (HistoryEntry, bool, error) {
	body, err := json.Marshal(map[string]any{
		"browseId": "FEmusic_history",
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    "WEB_REMIX",
				"clientVersion": "1.20240101.00.00",
				"hl":            "en",
			},
		},
	})
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("marshal browse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"?alt=json", bytes.NewReader(body))
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("build browse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	h.creds.apply(req)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("execute browse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return HistoryEntry{}, false, fmt.Errorf("browse returned %d: %w", resp.StatusCode, ErrAuthExpired)
	}
	if resp.StatusCode != http.StatusOK {
		return HistoryEntry{}, false, fmt.Errorf("browse returned %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("read browse response: %w", err)
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return HistoryEntry{}, false, fmt.Errorf("parse browse response: %w", err)
	}

	entry, found := firstHistoryEntry(document)
	if !found {
		h.logger.Debug("listening history is empty")
		return HistoryEntry{}, false, nil
	}
	return entry, true, nil
}

// firstHistoryEntry walks the youtubei response tree depth-first for the first
// musicResponsiveListItemRenderer, the shelf item shape used by the history
// page. The walk is structural rather than path-based; YouTube reshuffles the
// outer layers often enough that hard-coded paths rot quickly.
func firstHistoryEntry(node any) (HistoryEntry, bool) {
	switch value := node.(type) {
	case map[string]any:
		if item, ok := value["musicResponsiveListItemRenderer"].(map[string]any); ok {
			if entry, ok := parseListItem(item); ok {
				return entry, true
			}
		}
		for _, child := range value {
			if entry, ok := firstHistoryEntry(child); ok {
				return entry, true
			}
		}
	case []any:
		for _, child := range value {
			if entry, ok := firstHistoryEntry(child); ok {
				return entry, true
			}
		}
	}
	return HistoryEntry{}, false
}

func parseListItem(item map[string]any) (HistoryEntry, bool) {
	entry := HistoryEntry{
		VideoID:    itemVideoID(item),
		Title:      flexColumnText(item, 0),
		Artists:    flexColumnArtists(item),
		ArtworkURL: itemArtwork(item),
	}
	if entry.VideoID == "" || entry.Title == "" {
		return HistoryEntry{}, false
	}
	return entry, true
}

func itemVideoID(item map[string]any) string {
	if data, ok := item["playlistItemData"].(map[string]any); ok {
		if id, ok := data["videoId"].(string); ok && id != "" {
			return id
		}
	}
	// Fallback: first watchEndpoint anywhere under the item.
	return findString(item, "watchEndpoint", "videoId")
}

func flexColumnText(item map[string]any, index int) string {
	runs := flexColumnRuns(item, index)
	if len(runs) == 0 {
		return ""
	}
	text, _ := runs[0]["text"].(string)
	return strings.TrimSpace(text)
}

// flexColumnArtists reads the secondary flex column, which interleaves artist
// runs with separator runs and trails off into album and play-count segments
// after the first bullet.
func flexColumnArtists(item map[string]any) []string {
	var artists []string
	for _, run := range flexColumnRuns(item, 1) {
		text, _ := run["text"].(string)
		trimmed := strings.TrimSpace(text)
		if strings.Contains(text, "•") {
			break
		}
		if trimmed == "" || trimmed == "&" || trimmed == "," {
			continue
		}
		artists = append(artists, trimmed)
	}
	return artists
}

func flexColumnRuns(item map[string]any, index int) []map[string]any {
	columns, ok := item["flexColumns"].([]any)
	if !ok || index >= len(columns) {
		return nil
	}
	column, ok := columns[index].(map[string]any)
	if !ok {
		return nil
	}
	renderer, ok := column["musicResponsiveListItemFlexColumnRenderer"].(map[string]any)
	if !ok {
		return nil
	}
	textNode, ok := renderer["text"].(map[string]any)
	if !ok {
		return nil
	}
	rawRuns, ok := textNode["runs"].([]any)
	if !ok {
		return nil
	}
	runs := make([]map[string]any, 0, len(rawRuns))
	for _, raw := range rawRuns {
		if run, ok := raw.(map[string]any); ok {
			runs = append(runs, run)
		}
	}
	return runs
}

func itemArtwork(item map[string]any) string {
	thumbs := findSlice(item, "thumbnails")
	if len(thumbs) == 0 {
		return ""
	}
	last, ok := thumbs[len(thumbs)-1].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := last["url"].(string)
	return StripArtworkSizing(url)
}

// findString walks node for the first object stored under container and
// returns its key field.
func findString(node any, container, key string) string {
	switch value := node.(type) {
	case map[string]any:
		if inner, ok := value[container].(map[string]any); ok {
			if s, ok := inner[key].(string); ok && s != "" {
				return s
			}
		}
		for _, child := range value {
			if s := findString(child, container, key); s != "" {
				return s
			}
		}
	case []any:
		for _, child := range value {
			if s := findString(child, container, key); s != "" {
				return s
			}
		}
	}
	return ""
}

func findSlice(node any, key string) []any {
	switch value := node.(type) {
	case map[string]any:
		if slice, ok := value[key].([]any); ok {
			return slice
		}
		for _, child := range value {
			if slice := findSlice(child, key); slice != nil {
				return slice
			}
		}
	case []any:
		for _, child := range value {
			if slice := findSlice(child, key); slice != nil {
				return slice
			}
		}
	}
	return nil
}

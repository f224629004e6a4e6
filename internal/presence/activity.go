package presence

import (
	"fmt"
	"strings"
	"time"

	"cadence/internal/resolve"
)

// Display constants for the published activity. fallbackAssetKey must match an
// art asset uploaded to the Discord application identified by the configured
// client id.
const (
	songPrefix   = "🎵 "
	artistPrefix = "👤 "

	fallbackAssetKey  = "youtubemusic"
	fallbackAssetText = "YouTube Music"

	smallAssetKey  = "youtubemusic"
	smallAssetText = "Listening on YouTube Music"

	buttonLabel = "🎧 Listen on YouTube Music"

	// Discord rejects string fields shorter than 2 or longer than 128 runes.
	minFieldLen = 2
	maxFieldLen = 128
)

// Activity is the fixed-shape rich-presence payload. Build it with
// NewActivity so every instance is validated.
type Activity struct {
	Details    string
	State      string
	Start      time.Time
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
	Button     Button
}

// Button is the single call-to-action attached to the activity.
type Button struct {
	Label string
	URL   string
}

// NewActivity renders a resolved track into a publishable activity, starting
// the elapsed counter at start.
func NewActivity(track resolve.TrackInfo, start time.Time) (Activity, error) {
	activity := Activity{
		Details:    clampField(songPrefix + track.SongName),
		State:      clampField(artistPrefix + track.ArtistName),
		Start:      start,
		LargeImage: track.ArtworkURL,
		LargeText:  clampField(track.SongName + " — " + track.ArtistName),
		SmallImage: smallAssetKey,
		SmallText:  smallAssetText,
		Button: Button{
			Label: buttonLabel,
			URL:   track.ListenURL,
		},
	}

	if activity.LargeImage == "" {
		activity.LargeImage = fallbackAssetKey
		activity.LargeText = fallbackAssetText
	}

	if err := activity.validate(); err != nil {
		return Activity{}, err
	}
	return activity, nil
}

func (a Activity) validate() error {
	if strings.TrimSpace(a.Details) == "" {
		return fmt.Errorf("activity details must not be empty")
	}
	if strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("activity state must not be empty")
	}
	if a.Start.IsZero() {
		return fmt.Errorf("activity start time must be set")
	}
	if a.Button.URL == "" {
		return fmt.Errorf("activity button url must not be empty")
	}
	return nil
}

// clampField pads and truncates a display string to Discord's field limits.
func clampField(value string) string {
	runes := []rune(value)
	if len(runes) > maxFieldLen {
		return string(runes[:maxFieldLen])
	}
	if len(runes) > 0 && len(runes) < minFieldLen {
		return value + " "
	}
	return value
}

package titles

import (
	"regexp"
	"strings"
)

// Hint carries the parsed song and artist guesses for a window title.
// Artist is empty when no separator produced a credible artist.
type Hint struct {
	Song   string
	Artist string
}

var leadingGlyphPattern = regexp.MustCompile(`^[\s▶►▸⏵⏸⏯⏮⏭♪♫🎵🎶•·∙●○◦➤→»※*]+`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// hostSuffixes are application and browser names that renderers append to
// window titles. Ordered longest-first so "Opera GX" wins over "Opera".
var hostSuffixes = []string{
	"YouTube Music",
	"Mozilla Firefox",
	"Microsoft Edge",
	"Google Chrome",
	"Brave Browser",
	"Opera GX",
	"Chromium",
	"Vivaldi",
	"Firefox",
	"YouTube",
	"Brave",
	"Opera",
	"Edge",
}

// separators are tried in priority order, each requiring single-space
// boundaries so hyphenated words ("Lo-fi") survive splitting.
var separators = []string{" — ", " – ", " - ", " · ", " | "}

// Parse derives song and artist hints from a raw window title. The boolean is
// false when the title is empty or reduces to nothing after cleanup.
func Parse(rawTitle string) (Hint, bool) {
	cleaned := clean(rawTitle)
	if cleaned == "" {
		return Hint{}, false
	}

	for _, sep := range separators {
		parts := splitNonEmpty(cleaned, sep)
		if len(parts) < 2 {
			continue
		}
		artist := parts[1]
		if isHostName(artist) {
			continue
		}
		return Hint{Song: parts[0], Artist: artist}, true
	}

	return Hint{Song: cleaned}, true
}

func clean(rawTitle string) string {
	value := strings.TrimSpace(rawTitle)
	if value == "" {
		return ""
	}
	value = leadingGlyphPattern.ReplaceAllString(value, "")
	value = stripHostSuffixes(value)
	value = whitespacePattern.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// stripHostSuffixes removes trailing application names and the separator
// remnants before them, repeatedly: "Song — YouTube Music — Opera GX" loses
// both suffixes. A title made of nothing but host names reduces to "" so an
// idle player tab never turns into a song hint.
func stripHostSuffixes(value string) string {
	for {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		lower := strings.ToLower(trimmed)
		matched := false
		for _, suffix := range hostSuffixes {
			if strings.HasSuffix(lower, strings.ToLower(suffix)) {
				value = strings.TrimRight(trimmed[:len(trimmed)-len(suffix)], " \t—–-·|")
				matched = true
				break
			}
		}
		if !matched {
			return trimmed
		}
	}
}

func splitNonEmpty(value, sep string) []string {
	raw := strings.Split(value, sep)
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func isHostName(value string) bool {
	for _, suffix := range hostSuffixes {
		if strings.EqualFold(value, suffix) {
			return true
		}
	}
	return false
}

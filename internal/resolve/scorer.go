package resolve

import (
	"strings"

	"cadence/internal/ytm"
)

// maxScored bounds how many candidates pickBest evaluates.
const maxScored = 3

// scoreCandidate rates how well a candidate matches the hints. Each clause is
// independent and additive: exact (substring) title match 2.0 or token match
// 1.0, same for the artist, plus 1.0 for song-typed results.
func scoreCandidate(candidate ytm.Candidate, songHint, artistHint string) float64 {
	score := 0.0

	title := strings.ToLower(candidate.Title)
	song := strings.ToLower(strings.TrimSpace(songHint))
	if song != "" {
		if strings.Contains(title, song) {
			score += 2.0
		} else if anyTokenIn(song, title) {
			score += 1.0
		}
	}

	artist := strings.ToLower(strings.TrimSpace(artistHint))
	if artist != "" {
		candidateArtists := strings.ToLower(candidate.ArtistNames())
		if strings.Contains(candidateArtists, artist) {
			score += 2.0
		} else if anyTokenIn(artist, candidateArtists) {
			score += 1.0
		}
	}

	if candidate.Kind == ytm.KindSong {
		score += 1.0
	}

	return score
}

// pickBest returns the highest-scoring candidate among the first maxScored.
// Ties keep the earliest candidate; an unmatched list falls back to the first
// entry. Callers must not pass an empty list.
func pickBest(candidates []ytm.Candidate, songHint, artistHint string) ytm.Candidate {
	best := candidates[0]
	bestScore := scoreCandidate(best, songHint, artistHint)

	limit := len(candidates)
	if limit > maxScored {
		limit = maxScored
	}
	for _, candidate := range candidates[1:limit] {
		if score := scoreCandidate(candidate, songHint, artistHint); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}

func anyTokenIn(hint, haystack string) bool {
	for _, token := range strings.Fields(hint) {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

package resolve

import (
	"testing"

	"cadence/internal/ytm"
)

func TestScoreCandidatePrefersFullMatches(t *testing.T) {
	full := ytm.Candidate{Title: "Windowpane", Artists: []string{"Opeth"}, Kind: ytm.KindSong}
	titleOnly := ytm.Candidate{Title: "Windowpane (Live)", Artists: []string{"Somebody Else"}, Kind: ytm.KindSong}

	fullScore := scoreCandidate(full, "Windowpane", "Opeth")
	partialScore := scoreCandidate(titleOnly, "Windowpane", "Opeth")

	if fullScore <= partialScore {
		t.Fatalf("full match scored %v, title-only scored %v; want full > title-only", fullScore, partialScore)
	}
	if got, want := fullScore, 5.0; got != want {
		t.Errorf("full match score = %v, want %v", got, want)
	}
}

func TestScoreCandidateTokenOverlap(t *testing.T) {
	candidate := ytm.Candidate{Title: "Ghost of Perdition", Artists: []string{"Opeth"}, Kind: ytm.KindVideo}

	// "ghost reveries" shares the token "ghost" with the title but is not a
	// substring, so the title clause contributes 1.0 instead of 2.0.
	got := scoreCandidate(candidate, "Ghost Reveries", "Opeth")
	if want := 3.0; got != want {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestScoreCandidateSongTypeBonus(t *testing.T) {
	song := ytm.Candidate{Title: "Harvest", Artists: []string{"Opeth"}, Kind: ytm.KindSong}
	video := ytm.Candidate{Title: "Harvest", Artists: []string{"Opeth"}, Kind: ytm.KindVideo}

	if songScore, videoScore := scoreCandidate(song, "Harvest", "Opeth"), scoreCandidate(video, "Harvest", "Opeth"); songScore != videoScore+1.0 {
		t.Errorf("song score = %v, video score = %v; want song = video + 1", songScore, videoScore)
	}
}

func TestPickBestTieKeepsFirst(t *testing.T) {
	first := ytm.Candidate{VideoID: "a", Title: "Deliverance", Artists: []string{"Opeth"}, Kind: ytm.KindSong}
	second := ytm.Candidate{VideoID: "b", Title: "Deliverance", Artists: []string{"Opeth"}, Kind: ytm.KindSong}

	got := pickBest([]ytm.Candidate{first, second}, "Deliverance", "Opeth")
	if got.VideoID != "a" {
		t.Errorf("pickBest chose %q, want first candidate on tie", got.VideoID)
	}
}

func TestPickBestIgnoresCandidatesBeyondLimit(t *testing.T) {
	candidates := []ytm.Candidate{
		{VideoID: "a", Title: "unrelated", Kind: ytm.KindVideo},
		{VideoID: "b", Title: "also unrelated", Kind: ytm.KindVideo},
		{VideoID: "c", Title: "still unrelated", Kind: ytm.KindVideo},
		{VideoID: "d", Title: "Blackwater Park", Artists: []string{"Opeth"}, Kind: ytm.KindSong},
	}

	got := pickBest(candidates, "Blackwater Park", "Opeth")
	if got.VideoID == "d" {
		t.Errorf("pickBest considered candidate beyond the scoring limit")
	}
	if got.VideoID != "a" {
		t.Errorf("pickBest chose %q, want fallback to first candidate", got.VideoID)
	}
}

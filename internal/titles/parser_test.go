package titles

import "testing"

func TestParseFullDecoratedTitle(t *testing.T) {
	hint, ok := Parse("▶ Blinding Lights — The Weeknd — YouTube Music — Opera GX")
	if !ok {
		t.Fatal("expected parseable title")
	}
	if hint.Song != "Blinding Lights" {
		t.Errorf("song = %q, want %q", hint.Song, "Blinding Lights")
	}
	if hint.Artist != "The Weeknd" {
		t.Errorf("artist = %q, want %q", hint.Artist, "The Weeknd")
	}
}

func TestParseNoSeparatorYieldsSongOnly(t *testing.T) {
	hint, ok := Parse("Lo-fi Beats")
	if !ok {
		t.Fatal("expected parseable title")
	}
	if hint.Song != "Lo-fi Beats" {
		t.Errorf("song = %q, want %q", hint.Song, "Lo-fi Beats")
	}
	if hint.Artist != "" {
		t.Errorf("artist = %q, want empty", hint.Artist)
	}
}

func TestParseEmptyAndWhitespace(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n", "▶ "} {
		if _, ok := Parse(input); ok {
			t.Errorf("Parse(%q) should not be ok", input)
		}
	}
}

func TestParseHostOnlyTitles(t *testing.T) {
	// An idle player tab titles itself with nothing but application names.
	// That must not survive cleanup as a song hint.
	for _, input := range []string{
		"YouTube Music",
		"YouTube Music — Mozilla Firefox",
		"▶ YouTube Music - Opera GX",
		"YouTube - Google Chrome",
	} {
		if hint, ok := Parse(input); ok {
			t.Errorf("Parse(%q) = (%+v, true), want not ok", input, hint)
		}
	}
}

func TestParseSeparatorVariants(t *testing.T) {
	cases := []struct {
		input        string
		song, artist string
	}{
		{"Take Five – Dave Brubeck - Google Chrome", "Take Five", "Dave Brubeck"},
		{"Nightcall - Kavinsky - Mozilla Firefox", "Nightcall", "Kavinsky"},
		{"Resonance · Home", "Resonance", "Home"},
		{"Flamingo | Kero Kero Bonito", "Flamingo", "Kero Kero Bonito"},
	}
	for _, tc := range cases {
		hint, ok := Parse(tc.input)
		if !ok {
			t.Errorf("Parse(%q) not ok", tc.input)
			continue
		}
		if hint.Song != tc.song || hint.Artist != tc.artist {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tc.input, hint.Song, hint.Artist, tc.song, tc.artist)
		}
	}
}

func TestParseRejectsBrowserAsArtist(t *testing.T) {
	// Suffix stripping misses nothing here, but a split that would leave a
	// browser name as the artist must degrade to song-only.
	hint, ok := Parse("Weightless - Opera")
	if !ok {
		t.Fatal("expected parseable title")
	}
	if hint.Artist != "" {
		t.Errorf("artist = %q, want empty (browser name rejected)", hint.Artist)
	}
	if hint.Song != "Weightless" {
		t.Errorf("song = %q, want %q", hint.Song, "Weightless")
	}
}

func TestParseHyphenatedWordsSurvive(t *testing.T) {
	hint, ok := Parse("Lo-fi hip hop radio - beats to relax/study to")
	if !ok {
		t.Fatal("expected parseable title")
	}
	if hint.Song != "Lo-fi hip hop radio" {
		t.Errorf("song = %q", hint.Song)
	}
	if hint.Artist != "beats to relax/study to" {
		t.Errorf("artist = %q", hint.Artist)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{
		"▶ Blinding Lights — The Weeknd — YouTube Music — Opera GX",
		"Lo-fi Beats",
		"🎵 Midnight City - M83 - YouTube Music",
		"",
	}
	for _, input := range inputs {
		first, okFirst := Parse(input)
		second, okSecond := Parse(input)
		if first != second || okFirst != okSecond {
			t.Errorf("Parse(%q) not deterministic: (%v,%v) vs (%v,%v)", input, first, okFirst, second, okSecond)
		}
	}
}

package ytm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const historyFixture = `{
  "contents": {
    "singleColumnBrowseResultsRenderer": {
      "tabs": [{"tabRenderer": {"content": {"sectionListRenderer": {"contents": [
        {"musicShelfRenderer": {"title": {"runs": [{"text": "Today"}]}, "contents": [
          {"musicResponsiveListItemRenderer": {
            "playlistItemData": {"videoId": "dQw4w9WgXcQ"},
            "thumbnail": {"musicThumbnailRenderer": {"thumbnail": {"thumbnails": [
              {"url": "https://lh3.googleusercontent.com/small=w60-h60", "width": 60, "height": 60},
              {"url": "https://lh3.googleusercontent.com/big=w544-h544", "width": 544, "height": 544}
            ]}}},
            "flexColumns": [
              {"musicResponsiveListItemFlexColumnRenderer": {"text": {"runs": [
                {"text": "Never Gonna Give You Up", "navigationEndpoint": {"watchEndpoint": {"videoId": "dQw4w9WgXcQ"}}}
              ]}}},
              {"musicResponsiveListItemFlexColumnRenderer": {"text": {"runs": [
                {"text": "Rick Astley"},
                {"text": " & "},
                {"text": "Someone Else"},
                {"text": " • "},
                {"text": "Whenever You Need Somebody"}
              ]}}}
            ]
          }}
        ]}}
      ]}}}}]
    }
  }
}`

func historyClientFor(t *testing.T, handler http.HandlerFunc) *HistoryClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	path := writeHeaders(t, `{"Cookie": "SAPISID=abc123", "User-Agent": "test"}`)
	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}

	client := NewHistoryClient(creds, nil)
	client.endpoint = server.URL
	return client
}

func TestLatestParsesNewestEntry(t *testing.T) {
	client := historyClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "SAPISIDHASH ") {
			t.Errorf("Authorization = %q, want SAPISIDHASH", r.Header.Get("Authorization"))
		}
		w.Write([]byte(historyFixture))
	})

	entry, ok, err := client.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a history entry")
	}
	if entry.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q", entry.VideoID)
	}
	if entry.Title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q", entry.Title)
	}
	if got := entry.ArtistNames(); got != "Rick Astley, Someone Else" {
		t.Errorf("artists = %q, want bullet-segment cut off", got)
	}
	if entry.ArtworkURL != "https://lh3.googleusercontent.com/big" {
		t.Errorf("ArtworkURL = %q, want sizing suffix stripped", entry.ArtworkURL)
	}
}

func TestLatestEmptyHistory(t *testing.T) {
	client := historyClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contents": {}}`))
	})

	_, ok, err := client.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if ok {
		t.Fatal("expected no entry for empty history")
	}
}

func TestLatestAuthExpired(t *testing.T) {
	client := historyClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := client.Latest(context.Background())
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("err = %v, want ErrAuthExpired", err)
	}
}

func TestLatestServerError(t *testing.T) {
	client := historyClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.Latest(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrAuthExpired) {
		t.Fatal("500 must not be classified as auth expiry")
	}
}

func TestStripArtworkSizing(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://x/img=w544-h544-l90", "https://x/img"},
		{"https://x/img", "https://x/img"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripArtworkSizing(tc.in); got != tc.want {
			t.Errorf("StripArtworkSizing(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package ytm

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeHeaders(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headers_auth.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write headers file: %v", err)
	}
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeHeaders(t, `{"Cookie": "SAPISID=abc123; OTHER=x", "User-Agent": "Mozilla/5.0"}`)

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}
	if creds.headers["User-Agent"] != "Mozilla/5.0" {
		t.Errorf("User-Agent = %q", creds.headers["User-Agent"])
	}
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.json"))
	if err != ErrNoCredentials {
		t.Fatalf("err = %v, want ErrNoCredentials", err)
	}
}

func TestLoadCredentialsRequiresCookie(t *testing.T) {
	path := writeHeaders(t, `{"User-Agent": "Mozilla/5.0"}`)
	if _, err := LoadCredentials(path); err == nil {
		t.Fatal("expected error for headers file without Cookie")
	}
}

func TestCredentialsExist(t *testing.T) {
	path := writeHeaders(t, `{"Cookie": "SAPISID=abc"}`)
	if !CredentialsExist(path) {
		t.Error("CredentialsExist = false for present file")
	}
	if CredentialsExist(filepath.Join(t.TempDir(), "absent.json")) {
		t.Error("CredentialsExist = true for absent file")
	}
}

func TestInvalidateRemovesFile(t *testing.T) {
	path := writeHeaders(t, `{"Cookie": "SAPISID=abc"}`)
	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}
	if err := creds.Invalidate(); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if CredentialsExist(path) {
		t.Error("headers file should be gone after Invalidate")
	}
	// Invalidating twice is fine.
	if err := creds.Invalidate(); err != nil {
		t.Errorf("second Invalidate failed: %v", err)
	}
}

func TestApplySetsSAPISIDHash(t *testing.T) {
	path := writeHeaders(t, `{"Cookie": "OTHER=x; SAPISID=secret", "Authorization": "stale"}`)
	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}
	fixed := time.Unix(1700000000, 0)
	creds.now = func() time.Time { return fixed }

	req, _ := http.NewRequest(http.MethodPost, browseEndpoint, nil)
	creds.apply(req)

	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "SAPISIDHASH 1700000000_") {
		t.Errorf("Authorization = %q, want SAPISIDHASH with request timestamp", auth)
	}
	if auth == "stale" {
		t.Error("stored Authorization header must be recomputed, not reused")
	}
	if req.Header.Get("Origin") != ytmOrigin {
		t.Errorf("Origin = %q", req.Header.Get("Origin"))
	}
}

func TestCookieValue(t *testing.T) {
	cookie := "A=1; SAPISID=needle; B=2"
	if got := cookieValue(cookie, "SAPISID"); got != "needle" {
		t.Errorf("cookieValue = %q, want needle", got)
	}
	if got := cookieValue(cookie, "MISSING"); got != "" {
		t.Errorf("cookieValue for missing name = %q, want empty", got)
	}
}

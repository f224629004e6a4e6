package ytm

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrNoCredentials indicates the headers file is absent; history mode cannot
// start until the user generates one ('ytmusicapi browser').
var ErrNoCredentials = errors.New("credentials file not found")

const ytmOrigin = "https://music.youtube.com"

// Credentials holds the browser headers captured for the history API, in
// ytmusicapi's headers_auth.json format. The file is an opaque blob managed
// by that tool; cadence only loads it, applies it to requests, and deletes it
// when authentication fails.
type Credentials struct {
	path    string
	headers map[string]string
	now     func() time.Time
}

// CredentialsExist reports whether a headers file is present at path.
func CredentialsExist(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadCredentials reads and parses the headers file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	headers := make(map[string]string, len(raw))
	for key, value := range raw {
		if s, ok := value.(string); ok {
			headers[key] = s
		}
	}
	if headerValue(headers, "Cookie") == "" {
		return nil, fmt.Errorf("credentials file has no Cookie header")
	}

	return &Credentials{path: path, headers: headers, now: time.Now}, nil
}

// Invalidate deletes the headers file so the next start forces a re-bootstrap.
func (c *Credentials) Invalidate() error {
	if c == nil || c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// apply copies the stored headers onto req and computes a fresh SAPISIDHASH
// authorization, which YouTube requires to be derived per request from the
// SAPISID cookie and the origin.
func (c *Credentials) apply(req *http.Request) {
	for key, value := range c.headers {
		if strings.EqualFold(key, "Authorization") || strings.EqualFold(key, "Content-Length") {
			continue
		}
		req.Header.Set(key, value)
	}
	req.Header.Set("Origin", ytmOrigin)
	req.Header.Set("X-Origin", ytmOrigin)

	if sapisid := cookieValue(headerValue(c.headers, "Cookie"), "SAPISID"); sapisid != "" {
		req.Header.Set("Authorization", sapisidHash(c.now(), sapisid))
	}
}

func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

func cookieValue(cookie, name string) string {
	for _, part := range strings.Split(cookie, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, name+"="); ok {
			return value
		}
	}
	return ""
}

func sapisidHash(at time.Time, sapisid string) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	digest := sha1.Sum([]byte(ts + " " + sapisid + " " + ytmOrigin))
	return fmt.Sprintf("SAPISIDHASH %s_%x", ts, digest)
}

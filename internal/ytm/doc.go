// Package ytm talks to YouTube Music.
//
// Two collaborators live here: the public metadata search (no authentication,
// wraps github.com/raitonoberu/ytmusic) and the listening-history client,
// which posts to the youtubei browse endpoint with browser headers captured
// by ytmusicapi. Both are thin adapters; resolution and scoring policy live
// in internal/resolve.
package ytm

// Package resolve turns song and artist hints into publish-ready track
// metadata.
//
// Resolution is cache-first: a hit skips the network entirely. On a miss it
// runs a songs-filtered search, retries unrestricted, scores the candidates
// against the hints, and caches the winner. Resolve never fails: when search
// errors out or returns nothing it synthesizes a fallback record whose listen
// link points at the provider's own search page, so the published presence
// always has an actionable URL.
package resolve

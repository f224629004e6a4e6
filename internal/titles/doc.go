// Package titles turns noisy browser window titles into song and artist hints.
//
// Window titles wobble: players prepend play/pause glyphs, browsers append
// their own names, and renderers insert decorative separators. Parse is a pure
// function over that noise; downstream identity comparison relies on it being
// deterministic for a fixed input.
package titles

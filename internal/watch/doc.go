// Package watch produces the per-tick now-playing signal. Two sources exist:
// a window-title scraper that shells out to the desktop's window-listing
// tools, and a listening-history source backed by the authenticated history
// API. Both normalize into the same Signal shape so the poll loop does not
// care which mode is configured.
package watch

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"cadence/internal/logging"
	"cadence/internal/resolve"
	"cadence/internal/titles"
)

// commandRunner executes a desktop tool and returns its stdout. Swapped out
// in tests.
type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(output), nil
}

// TitleSource scrapes window titles for a playing track. It lists windows via
// wmctrl, falling back to xdotool, and keeps the first title matching one of
// the configured patterns.
type TitleSource struct {
	patterns []string
	logger   *slog.Logger
	run      commandRunner
}

var _ Source = (*TitleSource)(nil)

// NewTitleSource creates a title source matching windows whose title contains
// any of patterns (case-insensitive).
func NewTitleSource(patterns []string, logger *slog.Logger) *TitleSource {
	return &TitleSource{
		patterns: patterns,
		logger:   logging.NewComponentLogger(logger, "watch"),
		run:      runCommand,
	}
}

// Poll scans window titles and parses the first match into hints. No matching
// window, or a title that parses to nothing, yields an absent signal.
func (s *TitleSource) Poll(ctx context.Context) (Signal, error) {
	windowTitles, err := s.listWindowTitles(ctx)
	if err != nil {
		s.logger.Warn("window listing failed",
			logging.String(logging.FieldEventType, "window_list_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install wmctrl or xdotool"),
			logging.String(logging.FieldImpact, "presence treated as not playing this tick"))
		return Signal{}, nil
	}

	for _, title := range windowTitles {
		if !s.matches(title) {
			continue
		}
		hint, ok := titles.Parse(title)
		if !ok {
			continue
		}
		return Signal{
			Present:    true,
			Identity:   resolve.Key(hint.Song, hint.Artist),
			SongHint:   hint.Song,
			ArtistHint: hint.Artist,
		}, nil
	}

	return Signal{}, nil
}

func (s *TitleSource) matches(title string) bool {
	lower := strings.ToLower(title)
	for _, pattern := range s.patterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// listWindowTitles returns the titles of all visible windows. wmctrl -l lines
// are "<id> <desktop> <host> <title...>"; xdotool prints bare titles.
func (s *TitleSource) listWindowTitles(ctx context.Context) ([]string, error) {
	output, wmctrlErr := s.run(ctx, "wmctrl", "-l")
	if wmctrlErr == nil {
		var windowTitles []string
		for _, line := range strings.Split(output, "\n") {
			fields := strings.Fields(line)
			if len(fields) < 4 {
				continue
			}
			windowTitles = append(windowTitles, strings.Join(fields[3:], " "))
		}
		return windowTitles, nil
	}

	output, xdotoolErr := s.run(ctx, "xdotool", "search", "--onlyvisible", "--name", ".", "getwindowname", "%@")
	if xdotoolErr != nil {
		return nil, fmt.Errorf("wmctrl: %w; xdotool: %v", wmctrlErr, xdotoolErr)
	}

	var windowTitles []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			windowTitles = append(windowTitles, line)
		}
	}
	return windowTitles, nil
}

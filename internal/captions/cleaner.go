package captions

import (
	"regexp"
	"strings"
)

// Cue markup is removed in this order; later patterns assume earlier ones
// already ran.
var cuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`WEBVTT|Kind:.*|Language:.*|Style:.*`),
	regexp.MustCompile(`\d{2}:\d{2}:\d{2}.\d{3} --> \d{2}:\d{2}:\d{2}.\d{3}`),
	regexp.MustCompile(`<[^>]*>|\{.*?\}`),
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`align:.*|position:.*|line:.*|size:.*`),
}

var numericLine = regexp.MustCompile(`^\d+$`)

// Clean flattens raw WebVTT content into a single line of prose. Header
// declarations, timestamps, inline tags, styling directives and cue numbers
// are dropped, and consecutive repeated lines (rolling auto-captions) are
// collapsed. An empty result means the track had no usable text. Clean is
// idempotent.
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, pattern := range cuePatterns {
		text = pattern.ReplaceAllString(text, "")
	}

	lines := make([]string, 0, 64)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || numericLine.MatchString(line) {
			continue
		}
		if n := len(lines); n > 0 && lines[n-1] == line {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, " ")
}

// Package videoref normalizes user-supplied video URLs into canonical
// single-video references.
package videoref

import (
	"regexp"
	"strings"

	"vidchat/internal/services"
)

var (
	watchPattern = regexp.MustCompile(`(https?://www\.youtube\.com/watch\?v=[^&\s]+)`)
	shortPattern = regexp.MustCompile(`(https?://youtu\.be/[^?\s]+)`)
)

// Reference is a canonical video URL with playlist, list, and index
// parameters removed.
type Reference string

func (r Reference) String() string { return string(r) }

// Normalize validates raw and strips playlist context from it. Inputs that
// do not mention a supported host fail with services.ErrInvalidReference.
// References on a supported host that match neither the watch nor the short
// link shape are returned unchanged.
func Normalize(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !(strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be")) {
		return "", services.Wrap(services.ErrInvalidReference, "videoref", "normalize", "Invalid YouTube URL", nil)
	}
	switch {
	case strings.Contains(raw, "youtube.com/watch"):
		if match := watchPattern.FindString(raw); match != "" {
			return Reference(match), nil
		}
	case strings.Contains(raw, "youtu.be/"):
		if match := shortPattern.FindString(raw); match != "" {
			return Reference(match), nil
		}
	}
	return Reference(raw), nil
}

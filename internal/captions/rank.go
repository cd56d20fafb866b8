package captions

import "strings"

// Rank orders the available caption languages for download. Each priority
// entry, in order, is kept when it matches any available tag by substring in
// either direction ("en" matches "en-US" and "en-US" matches "en"). When no
// entry matches, only the first available language is returned. The result
// holds priority entries, not the available tags they matched.
func Rank(available, priority []string) []string {
	if len(available) == 0 {
		return nil
	}
	ranked := make([]string, 0, len(priority))
	for _, tag := range priority {
		if tag == "" {
			continue
		}
		for _, have := range available {
			if strings.Contains(have, tag) || strings.Contains(tag, have) {
				ranked = append(ranked, tag)
				break
			}
		}
	}
	if len(ranked) == 0 {
		return []string{available[0]}
	}
	return ranked
}

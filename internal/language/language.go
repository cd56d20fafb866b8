package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Bases with English word forms accepted in configuration ("english").
var namedBases = []string{
	"en", "es", "fr", "de", "it", "pt", "ja", "ko", "zh", "ru",
	"ar", "hi", "nl", "pl", "sv", "da", "no", "fi", "tr", "uk",
}

var byWord = func() map[string]string {
	namer := display.English.Languages()
	words := make(map[string]string, len(namedBases))
	for _, code := range namedBases {
		base := language.MustParseBase(code)
		tag, _ := language.Compose(base)
		words[strings.ToLower(namer.Name(tag))] = code
	}
	return words
}()

func primarySubtag(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}

// ToISO2 converts a language code, caption tag, or English language name to
// its ISO 639-1 code when one exists ("eng", "en-US", "english" all give
// "en"). Unrecognized input returns an empty string.
func ToISO2(code string) string {
	primary := primarySubtag(code)
	if primary == "" {
		return ""
	}
	if code, ok := byWord[strings.ToLower(strings.TrimSpace(code))]; ok {
		return code
	}
	base, err := language.ParseBase(primary)
	if err != nil {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name for a caption tag. Tags the language
// package cannot parse fall back to the name of their primary subtag, then
// to the tag itself.
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Unknown"
	}
	if parsed, err := language.Parse(tag); err == nil {
		if name := display.English.Tags().Name(parsed); name != "" {
			return name
		}
	}
	if base, err := language.ParseBase(primarySubtag(tag)); err == nil {
		t, _ := language.Compose(base)
		if name := display.English.Languages().Name(t); name != "" {
			return name
		}
	}
	return tag
}

// DescribeAll renders tags as "tag (Name)" for logs and status output.
func DescribeAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		name := DisplayName(tag)
		if name == tag {
			out = append(out, tag)
			continue
		}
		out = append(out, tag+" ("+name+")")
	}
	return out
}

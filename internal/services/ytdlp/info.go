package ytdlp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Info is the subset of yt-dlp's JSON metadata the pipeline reads.
type Info struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Duration          float64   `json:"duration"`
	Subtitles         trackKeys `json:"subtitles"`
	AutomaticCaptions trackKeys `json:"automatic_captions"`
}

// Languages returns manual caption languages followed by automatic ones, in
// the order yt-dlp reported them, without duplicates.
func (i Info) Languages() []string {
	seen := make(map[string]struct{}, len(i.Subtitles)+len(i.AutomaticCaptions))
	langs := make([]string, 0, len(i.Subtitles)+len(i.AutomaticCaptions))
	for _, group := range [][]string{i.Subtitles, i.AutomaticCaptions} {
		for _, lang := range group {
			if _, ok := seen[lang]; ok {
				continue
			}
			seen[lang] = struct{}{}
			langs = append(langs, lang)
		}
	}
	return langs
}

// trackKeys decodes a JSON object into its keys in document order. yt-dlp
// lists caption languages as object keys and the order carries meaning.
type trackKeys []string

func (k *trackKeys) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("caption tracks: expected object, got %v", tok)
	}
	keys := make([]string, 0, 8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("caption tracks: unexpected key %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return fmt.Errorf("caption tracks: %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	*k = keys
	return nil
}

func parseInfo(data []byte) (Info, error) {
	var info Info
	if len(bytes.TrimSpace(data)) == 0 {
		return info, fmt.Errorf("empty metadata output")
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parse metadata: %w", err)
	}
	return info, nil
}

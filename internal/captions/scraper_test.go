package captions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vidchat/internal/logging"
	"vidchat/internal/services"
	"vidchat/internal/videoref"
)

type fakeSource struct {
	title     string
	languages []string
	listErr   error
	tracks    map[string]string
	attempts  []string
	dirs      []string
}

func (f *fakeSource) ListLanguages(context.Context, string) (string, []string, error) {
	return f.title, f.languages, f.listErr
}

func (f *fakeSource) DownloadTrack(_ context.Context, _ string, lang, dir string) (string, error) {
	f.attempts = append(f.attempts, lang)
	f.dirs = append(f.dirs, dir)
	content, ok := f.tracks[lang]
	if !ok {
		return "", errors.New("no track for " + lang)
	}
	path := filepath.Join(dir, "sub."+lang+".vtt")
	return path, os.WriteFile(path, []byte(content), 0o644)
}

const ref = videoref.Reference("https://www.youtube.com/watch?v=abc")

func newTestScraper(t *testing.T, src *fakeSource) (*Scraper, string) {
	t.Helper()
	root := t.TempDir()
	return NewScraper(src, root, nil, logging.NewNop()), root
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}

func TestScrapeFallsThroughLanguages(t *testing.T) {
	src := &fakeSource{
		title:     "Talk",
		languages: []string{"en", "fr"},
		tracks:    map[string]string{"fr": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nbonjour\n"},
	}
	scraper, root := newTestScraper(t, src)
	track, err := scraper.Scrape(context.Background(), ref)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if track.Text != "bonjour" || track.Title != "Talk" || track.Language != "fr" {
		t.Fatalf("unexpected track %+v", track)
	}
	if !slices.Equal(src.attempts, []string{"en", "fr"}) {
		t.Fatalf("attempts = %v", src.attempts)
	}
	assertEmptyDir(t, root)
}

func TestScrapeStopsAtFirstFile(t *testing.T) {
	src := &fakeSource{
		languages: []string{"en", "de"},
		tracks: map[string]string{
			"en": "hello",
			"de": "hallo",
		},
	}
	scraper, _ := newTestScraper(t, src)
	track, err := scraper.Scrape(context.Background(), ref)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if track.Text != "hello" || len(src.attempts) != 1 {
		t.Fatalf("track=%+v attempts=%v", track, src.attempts)
	}
}

func TestScrapeNotFoundCases(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{name: "no languages", src: &fakeSource{}},
		{name: "listing error", src: &fakeSource{listErr: errors.New("HTTP 429")}},
		{name: "all downloads fail", src: &fakeSource{languages: []string{"en", "es"}}},
		{name: "empty after cleaning", src: &fakeSource{
			languages: []string{"en"},
			tracks:    map[string]string{"en": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scraper, root := newTestScraper(t, tt.src)
			_, err := scraper.Scrape(context.Background(), ref)
			if !errors.Is(err, services.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
			assertEmptyDir(t, root)
		})
	}
}

func TestScrapeUsesScopedDirectories(t *testing.T) {
	src := &fakeSource{languages: []string{"en"}, tracks: map[string]string{"en": "hi"}}
	scraper, root := newTestScraper(t, src)
	if _, err := scraper.Scrape(context.Background(), ref); err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	rel, err := filepath.Rel(root, src.dirs[0])
	if err != nil || rel == "." || filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		t.Fatalf("download dir %q is not inside %q", src.dirs[0], root)
	}
}

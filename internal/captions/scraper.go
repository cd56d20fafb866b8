package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"vidchat/internal/config"
	"vidchat/internal/fallback"
	"vidchat/internal/logging"
	"vidchat/internal/services"
	"vidchat/internal/staging"
	"vidchat/internal/videoref"
)

// Source lists and downloads caption tracks. *ytdlp.Client satisfies it.
type Source interface {
	ListLanguages(ctx context.Context, url string) (title string, languages []string, err error)
	DownloadTrack(ctx context.Context, url, lang, dir string) (string, error)
}

// Track is a cleaned caption transcript.
type Track struct {
	Language string
	Title    string
	Text     string
}

// Scraper acquires transcripts from published caption tracks.
type Scraper struct {
	source   Source
	workRoot string
	priority []string
	logger   *slog.Logger
}

// NewScraper builds a scraper that downloads into workspaces under workRoot.
// An empty priority list uses config.DefaultLanguagePriority.
func NewScraper(source Source, workRoot string, priority []string, logger *slog.Logger) *Scraper {
	if len(priority) == 0 {
		priority = config.DefaultLanguagePriority()
	}
	return &Scraper{
		source:   source,
		workRoot: workRoot,
		priority: append([]string(nil), priority...),
		logger:   logging.NewComponentLogger(logger, "captions"),
	}
}

// Scrape returns the cleaned text of the best caption track for ref. Any
// failure, including a track that cleans down to nothing, is reported as
// services.ErrNotFound. Downloaded files are removed before Scrape returns.
func (s *Scraper) Scrape(ctx context.Context, ref videoref.Reference) (Track, error) {
	track, err := s.scrape(ctx, ref)
	if err != nil {
		logging.WarnWithContext(s.logger, "caption scrape failed", "captions_unavailable",
			logging.String(logging.FieldVideo, ref.String()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "video may have no captions or yt-dlp may need updating"),
			logging.String(logging.FieldImpact, "falling back to audio transcription"),
		)
		if !errors.Is(err, services.ErrNotFound) {
			err = services.Wrap(services.ErrNotFound, "captions", "scrape", "no usable captions", err)
		}
		return Track{}, err
	}
	s.logger.Info("captions scraped",
		logging.String(logging.FieldVideo, ref.String()),
		logging.String("language", track.Language),
		logging.Int("chars", len(track.Text)),
	)
	return track, nil
}

func (s *Scraper) scrape(ctx context.Context, ref videoref.Reference) (Track, error) {
	url := ref.String()
	title, available, err := s.source.ListLanguages(ctx, url)
	if err != nil {
		return Track{}, fmt.Errorf("list languages: %w", err)
	}
	if len(available) == 0 {
		return Track{}, services.Wrap(services.ErrNotFound, "captions", "list", "video has no caption tracks", nil)
	}
	candidates := Rank(available, s.priority)
	s.logger.Debug("caption candidates",
		logging.String(logging.FieldVideo, url),
		logging.Any("available", available),
		logging.Any("candidates", candidates),
	)

	ws, err := staging.NewWorkspace(s.workRoot, "captions")
	if err != nil {
		return Track{}, err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logging.WarnWithContext(s.logger, "caption workspace cleanup failed", "workspace_cleanup_failed",
				logging.String("dir", ws.Dir()),
				logging.Error(cerr),
				logging.String(logging.FieldImpact, "stale caption files remain until the next sweep"),
			)
		}
	}()

	chain := fallback.Chain[string, string]{
		Attempt: func(ctx context.Context, lang string) (string, error) {
			dir := ws.Path(lang)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", err
			}
			path, err := s.source.DownloadTrack(ctx, url, lang, dir)
			if err != nil {
				return "", err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read caption file: %w", err)
			}
			return string(data), nil
		},
		OnFailure: func(lang string, err error) {
			s.logger.Debug("caption download failed",
				logging.String("language", lang),
				logging.Error(err),
			)
		},
	}
	lang, raw, err := chain.Run(ctx, candidates)
	if err != nil {
		return Track{}, services.Wrap(services.ErrNotFound, "captions", "download", "no caption track could be downloaded", err)
	}

	text := Clean(raw)
	if strings.TrimSpace(text) == "" {
		return Track{}, services.Wrap(services.ErrNotFound, "captions", "clean", "caption track "+lang+" has no text", nil)
	}
	return Track{Language: lang, Title: title, Text: text}, nil
}

package audio

import (
	"context"
	"log/slog"
	"strings"

	"vidchat/internal/logging"
	"vidchat/internal/services"
	"vidchat/internal/services/ytdlp"
	"vidchat/internal/staging"
	"vidchat/internal/videoref"
)

// DefaultTitle labels videos whose metadata has no title.
const DefaultTitle = "Video"

// Fetcher downloads a video's audio into a directory. *ytdlp.Client
// satisfies it.
type Fetcher interface {
	FetchAudio(ctx context.Context, url, dir string) (ytdlp.AudioFile, error)
}

// Audio is a downloaded, speech-ready audio file.
type Audio struct {
	Title string
	Path  string
	// Duration is the media length in seconds; zero when unknown.
	Duration float64
}

// Extractor downloads audio into per-request workspaces.
type Extractor struct {
	fetcher  Fetcher
	workRoot string
	logger   *slog.Logger
}

// NewExtractor builds an extractor rooted at workRoot.
func NewExtractor(fetcher Fetcher, workRoot string, logger *slog.Logger) *Extractor {
	return &Extractor{
		fetcher:  fetcher,
		workRoot: workRoot,
		logger:   logging.NewComponentLogger(logger, "audio"),
	}
}

// Extract downloads the audio for ref into a fresh workspace. The workspace
// is returned even when the download fails so the caller owns its removal;
// it is nil only when it could not be created. Failures carry
// services.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, ref videoref.Reference) (Audio, *staging.Workspace, error) {
	ws, err := staging.NewWorkspace(e.workRoot, "audio")
	if err != nil {
		return Audio{}, nil, services.Wrap(services.ErrExtraction, "audio", "workspace", "create workspace", err)
	}
	file, err := e.fetcher.FetchAudio(ctx, ref.String(), ws.Dir())
	if err != nil {
		return Audio{}, ws, services.Wrap(services.ErrExtraction, "audio", "download", "audio download failed", err)
	}

	result := Audio{
		Title:    strings.TrimSpace(file.Title),
		Path:     file.Path,
		Duration: file.Duration,
	}
	if result.Title == "" {
		result.Title = DefaultTitle
	}
	if result.Duration <= 0 {
		if d, derr := Mp3Duration(file.Path); derr == nil {
			result.Duration = d.Seconds()
		} else {
			e.logger.Debug("mp3 duration probe failed",
				logging.String("path", file.Path),
				logging.Error(derr),
			)
		}
	}
	e.logger.Info("audio extracted",
		logging.String(logging.FieldVideo, ref.String()),
		logging.String("title", result.Title),
		logging.Float64("duration_seconds", result.Duration),
	)
	return result, ws, nil
}

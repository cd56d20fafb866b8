package main

import (
	"context"
	"log/slog"
	"strings"

	"vidchat/internal/acquisition"
	"vidchat/internal/audio"
	"vidchat/internal/captions"
	"vidchat/internal/chat"
	"vidchat/internal/config"
	"vidchat/internal/deps"
	"vidchat/internal/logging"
	"vidchat/internal/permits"
	"vidchat/internal/polish"
	"vidchat/internal/preflight"
	"vidchat/internal/services/llm"
	"vidchat/internal/services/whisper"
	"vidchat/internal/services/ytdlp"
)

// runtime holds the services built once from configuration and shared by
// every request.
type runtime struct {
	gpu       deps.GPU
	permits   *permits.Pool
	whisper   *whisper.Service
	acquirer  *acquisition.Service
	polisher  *polish.Polisher
	responder *chat.Responder
}

// newTextBackend returns nil when no API key is configured; polishing then
// passes text through and chat reports exhaustion.
func newTextBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) llm.Generator {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logging.WarnWithContext(logger, "LLM API key missing", "llm_unconfigured",
			logging.String(logging.FieldImpact, "transcripts are returned unpolished and chat is unavailable"),
			logging.String(logging.FieldErrorHint, "set llm.api_key or GOOGLE_API_KEY"),
		)
		return nil
	}
	backend, err := llm.FromConfig(ctx, cfg.LLM)
	if err != nil {
		logging.ErrorWithContext(logger, "LLM backend unavailable", "llm_init_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcripts are returned unpolished and chat is unavailable"),
		)
		return nil
	}
	return backend
}

func buildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) *runtime {
	gpu := deps.ResolveCUDA(ctx, cfg)
	pool := permits.New(cfg.TranscriptionPermits(gpu.Available), cfg.PermitTimeout())

	downloader := ytdlp.New(cfg.Tools.YTDLP,
		ytdlp.WithListRetries(cfg.Acquisition.ListRetries),
		ytdlp.WithLogger(logger),
	)
	recognizer := whisper.NewService(whisper.Config{
		Model:           cfg.Transcription.Model,
		CUDA:            gpu.Available,
		ComputeType:     cfg.Transcription.ComputeType,
		VADMinSilenceMS: cfg.Transcription.VADMinSilenceMS,
		Language:        cfg.Transcription.Language,
	}, cfg.Tools.UVX)

	gen := newTextBackend(ctx, cfg, logger)
	polisher := polish.New(gen, cfg.LLM.Models, logger)

	acquirer := acquisition.New(acquisition.Dependencies{
		Memory:      preflight.AvailableMemory,
		MemoryFloor: cfg.MemoryFloorBytes(),
		Scraper:     captions.NewScraper(downloader, cfg.Paths.WorkDir, cfg.Acquisition.LanguagePriority, logger),
		Extractor:   audio.NewExtractor(downloader, cfg.Paths.WorkDir, logger),
		Transcriber: recognizer,
		Permits:     pool,
		Polisher:    polisher,
	}, logger)

	return &runtime{
		gpu:       gpu,
		permits:   pool,
		whisper:   recognizer,
		acquirer:  acquirer,
		polisher:  polisher,
		responder: chat.New(gen, cfg.LLM.Models, logger),
	}
}

// logMode reports the hardware mode and permit capacity chosen at startup.
func (r *runtime) logMode(logger *slog.Logger) {
	mode := "queue"
	if r.permits.Capacity() > 1 {
		mode = "parallel"
	}
	logger.Info("transcription mode selected",
		logging.String("mode", mode),
		logging.Bool("cuda", r.gpu.Available),
		logging.String("gpu_detail", r.gpu.Detail),
		logging.Int("permits", r.permits.Capacity()),
		logging.String(logging.FieldModel, r.whisper.Model()),
		logging.String("compute_type", r.whisper.ComputeType()),
	)
}

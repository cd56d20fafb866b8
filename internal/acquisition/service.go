package acquisition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"vidchat/internal/logging"
	"vidchat/internal/preflight"
	"vidchat/internal/services"
	"vidchat/internal/videoref"
)

// Dependencies are the collaborators an acquisition uses. All are required
// except Memory, which disables admission control when nil.
type Dependencies struct {
	Memory      preflight.MemoryProbe
	MemoryFloor uint64
	Scraper     Scraper
	Extractor   Extractor
	Transcriber Transcriber
	Permits     Permits
	Polisher    Polisher
}

// Service orchestrates acquisitions. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	deps   Dependencies
	logger *slog.Logger
	now    func() time.Time
}

// New builds the orchestrator.
func New(deps Dependencies, logger *slog.Logger) *Service {
	return &Service{
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "acquisition"),
		now:    time.Now,
	}
}

// Acquire produces a polished transcript for rawURL. Errors carry
// services.ErrOverloaded when the host is below the memory floor,
// services.ErrInvalidReference for unsupported URLs, and
// services.ErrExtraction for slow-path failures.
func (s *Service) Acquire(ctx context.Context, rawURL string) (Result, error) {
	start := s.now()
	logger := logging.WithContext(ctx, s.logger)

	stage := StageAdmission
	fail := func(err error) (Result, error) {
		logger.Info("acquisition failed",
			logging.String(logging.FieldStage, string(stage)),
			logging.Error(err),
		)
		return Result{}, err
	}

	if err := s.admit(logger); err != nil {
		return fail(err)
	}

	stage = StageNormalize
	ref, err := videoref.Normalize(rawURL)
	if err != nil {
		return fail(err)
	}
	ctx = services.WithVideo(ctx, ref.String())
	logger = logging.WithContext(ctx, s.logger)
	logger.Info("processing video")

	stage = StageFastPath
	transcript, err := s.fastPath(ctx, ref)
	if err != nil {
		logger.Info("no usable captions, falling back to speech recognition")
		stage = StageSlowPath
		transcript, err = s.slowPath(ctx, ref, logger)
		if err != nil {
			stage = StageFailed
			return fail(err)
		}
	}

	stage = StagePolishing
	text := s.deps.Polisher.Polish(services.WithStage(ctx, string(stage)), transcript.Text)

	elapsed := s.now().Sub(start).Seconds()
	logger.Info("acquisition complete",
		logging.String(logging.FieldStage, string(StageDone)),
		logging.String("provenance", string(transcript.Provenance)),
		logging.String("title", transcript.Title),
		logging.Float64("proc_time", elapsed),
	)
	return Result{
		Title:             transcript.Title,
		Transcript:        text,
		Provenance:        transcript.Provenance,
		ProcessingSeconds: elapsed,
		MediaDuration:     transcript.Duration,
	}, nil
}

func (s *Service) admit(logger *slog.Logger) error {
	if s.deps.Memory == nil {
		return nil
	}
	avail, err := s.deps.Memory()
	if err != nil {
		logging.WarnWithContext(logger, "memory probe failed", "memory_probe_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "request admitted without a memory check"),
		)
		return nil
	}
	if avail < s.deps.MemoryFloor {
		logging.WarnWithContext(logger, "rejecting request, memory below floor", "admission_rejected",
			logging.String("available", humanize.IBytes(avail)),
			logging.String("floor", humanize.IBytes(s.deps.MemoryFloor)),
			logging.String(logging.FieldImpact, "request rejected with 503"),
			logging.String(logging.FieldErrorHint, "wait for running transcriptions to finish"),
		)
		return services.Wrap(services.ErrOverloaded, "acquisition", "admit",
			"Server overloaded. RAM low.", fmt.Errorf("%s available, %s required",
				humanize.IBytes(avail), humanize.IBytes(s.deps.MemoryFloor)))
	}
	return nil
}

func (s *Service) fastPath(ctx context.Context, ref videoref.Reference) (Transcript, error) {
	track, err := s.deps.Scraper.Scrape(services.WithStage(ctx, string(StageFastPath)), ref)
	if err != nil {
		if !services.Absorbable(err) {
			err = services.Wrap(services.ErrNotFound, "acquisition", "fast path", "caption scrape failed", err)
		}
		return Transcript{}, err
	}
	return Transcript{
		Text:       track.Text,
		Title:      titleOrDefault(track.Title),
		Provenance: ProvenanceScraped,
	}, nil
}

// slowPath holds a transcription permit across extraction and recognition.
// The permit and the audio workspace are released on every return.
func (s *Service) slowPath(ctx context.Context, ref videoref.Reference, logger *slog.Logger) (Transcript, error) {
	ctx = services.WithStage(ctx, string(StageSlowPath))
	waitStart := s.now()
	release, err := s.deps.Permits.Acquire(ctx)
	if err != nil {
		return Transcript{}, err
	}
	defer release()
	logger.Debug("transcription permit acquired", logging.Duration("wait", s.now().Sub(waitStart)))

	media, ws, err := s.deps.Extractor.Extract(ctx, ref)
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logging.WarnWithContext(logger, "audio workspace cleanup failed", "workspace_cleanup_failed",
				logging.String("dir", ws.Dir()),
				logging.Error(cerr),
				logging.String(logging.FieldImpact, "audio files remain until the next sweep"),
			)
		}
	}()
	if err != nil {
		return Transcript{}, err
	}

	text, err := s.deps.Transcriber.Transcribe(ctx, media.Path)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrExtraction, "acquisition", "transcribe", "speech recognition failed", err)
	}
	var duration *float64
	if media.Duration > 0 {
		d := media.Duration
		duration = &d
	}
	return Transcript{
		Text:       strings.TrimSpace(text),
		Title:      titleOrDefault(media.Title),
		Provenance: ProvenanceRecognized,
		Duration:   duration,
	}, nil
}

func titleOrDefault(title string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return defaultTitle
}

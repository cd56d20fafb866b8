package acquisition

import (
	"context"

	"vidchat/internal/audio"
	"vidchat/internal/captions"
	"vidchat/internal/staging"
	"vidchat/internal/videoref"
)

// Provenance records which path produced a transcript.
type Provenance string

// Transcript provenances.
const (
	ProvenanceScraped    Provenance = "scraped"
	ProvenanceRecognized Provenance = "recognized"
)

// Stage names the pipeline step a request is in.
type Stage string

// Pipeline stages.
const (
	StageAdmission Stage = "admission_check"
	StageNormalize Stage = "normalizing"
	StageFastPath  Stage = "fast_path"
	StageSlowPath  Stage = "slow_path"
	StagePolishing Stage = "polishing"
	StageDone      Stage = "done"
	StageFailed    Stage = "failed"
)

const defaultTitle = "Video"

// Transcript is the text an acquisition produced before polishing.
type Transcript struct {
	Text       string
	Title      string
	Provenance Provenance
	// Duration is the media length in seconds. Nil for scraped transcripts.
	Duration *float64
}

// Result is the outcome of one acquisition.
type Result struct {
	Title      string
	Transcript string
	Provenance Provenance
	// ProcessingSeconds is measured from the start of Acquire.
	ProcessingSeconds float64
	// MediaDuration is the media length in seconds, nil when unknown.
	MediaDuration *float64
}

// Scraper is the caption fast path.
type Scraper interface {
	Scrape(ctx context.Context, ref videoref.Reference) (captions.Track, error)
}

// Extractor downloads audio into a workspace the caller must close.
type Extractor interface {
	Extract(ctx context.Context, ref videoref.Reference) (audio.Audio, *staging.Workspace, error)
}

// Transcriber runs speech recognition over an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Polisher formats transcript text. It never fails.
type Polisher interface {
	Polish(ctx context.Context, text string) string
}

// Permits gates concurrent transcriptions.
type Permits interface {
	Acquire(ctx context.Context) (func(), error)
}

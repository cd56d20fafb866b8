package api

import (
	"math"

	"vidchat/internal/acquisition"
	"vidchat/internal/chat"
)

// ScrapedDuration is reported in place of a media length for caption
// transcripts.
const ScrapedDuration = "Unknown (Scraped)"

// ProcessRequest asks for the transcript of one video.
type ProcessRequest struct {
	URL string `json:"url"`
}

// ProcessStats reports timing for an acquisition. Duration is either
// ScrapedDuration or the media length in seconds (null when unknown).
type ProcessStats struct {
	Duration any     `json:"duration"`
	ProcTime float64 `json:"proc_time"`
}

// ProcessResponse is the acquisition result.
type ProcessResponse struct {
	VideoName  string       `json:"video_name"`
	Transcript string       `json:"transcript"`
	Stats      ProcessStats `json:"stats"`
}

// NewProcessResponse converts an acquisition result to its wire form.
// Processing time is rounded to two decimals.
func NewProcessResponse(res acquisition.Result) ProcessResponse {
	var duration any = ScrapedDuration
	if res.Provenance != acquisition.ProvenanceScraped {
		duration = res.MediaDuration
	}
	return ProcessResponse{
		VideoName:  res.Title,
		Transcript: res.Transcript,
		Stats: ProcessStats{
			Duration: duration,
			ProcTime: math.Round(res.ProcessingSeconds*100) / 100,
		},
	}
}

// ChatRequest is one conversational turn.
type ChatRequest struct {
	Message    string      `json:"message"`
	Transcript string      `json:"transcript"`
	History    []chat.Turn `json:"history"`
	ReplyStyle string      `json:"reply_style"`
}

// ChatResponse carries the generated answer and the model that produced it.
type ChatResponse struct {
	Response  string `json:"response"`
	ModelUsed string `json:"model_used"`
}

// PolishRequest carries raw transcript text.
type PolishRequest struct {
	Text string `json:"text"`
}

// PolishResponse carries the formatted text. ModelUsed is empty when the
// input was returned unchanged.
type PolishResponse struct {
	Text      string `json:"text"`
	ModelUsed string `json:"model_used"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ErrorResponse is the body of every failed request. Status is set only for
// chat model exhaustion.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}

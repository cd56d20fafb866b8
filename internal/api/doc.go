// Package api serves the HTTP surface of vidchat: transcript acquisition,
// transcript polishing, chat over a transcript, and a health probe.
//
// # Routes
//
// POST /process_full_video: {url} -> {video_name, transcript, stats}. The
// stats duration is "Unknown (Scraped)" for caption transcripts and the media
// length in seconds otherwise.
//
// POST /chat: {message, transcript, history, reply_style} -> {response,
// model_used}. Model exhaustion answers 429 with status "out_of_tokens".
//
// POST /polish: {text} -> {text, model_used}.
//
// GET /health: {status: "healthy", uptime: "ok"}.
//
// # Design Notes
//
// Payloads keep snake_case keys for the existing browser client. Error bodies
// are {error: message}; status codes come from services.HTTPStatus.
// Acquisitions run on a context detached from request cancellation; a
// dropped connection does not stop a running transcription.
package api

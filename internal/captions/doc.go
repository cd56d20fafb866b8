// Package captions turns published caption tracks into plain transcript text.
//
// Scraper is the fast path of an acquisition: it asks yt-dlp which caption
// languages a video offers, ranks them against the configured priority list,
// downloads the first track that yields a file into a scratch workspace, and
// flattens the WebVTT cues into prose with Clean. Every failure is reported
// as services.ErrNotFound so the caller can fall back to speech recognition.
package captions

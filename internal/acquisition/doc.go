// Package acquisition turns a video URL into a polished transcript.
//
// A request moves through admission (memory floor), normalization, the
// caption fast path, the speech recognition slow path when no captions are
// usable, and polishing. Only the slow path is gated by the transcription
// permit pool; the permit and the audio workspace are released on every exit
// from it. Fast-path failures are absorbed, slow-path failures are returned.
package acquisition

// Package language normalizes the language identifiers that flow through
// the pipeline: caption tags reported by yt-dlp (BCP 47 with site-specific
// suffixes such as "en-orig"), the transcription language setting, and the
// human-readable names shown in logs and the status command.
package language

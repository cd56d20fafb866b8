// Package ytdlp wraps the yt-dlp command line tool.
//
// The client covers the three calls the acquisition pipeline needs: reading
// video metadata with the available caption languages, downloading a single
// caption track as WebVTT, and downloading the audio stream transcoded to a
// small mono mp3. Every invocation goes through a Runner so tests can replace
// the binary with canned output.
package ytdlp

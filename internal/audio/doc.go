// Package audio downloads the audio stream of a video for speech recognition.
package audio

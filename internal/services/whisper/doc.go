// Package whisper runs speech recognition over downloaded audio.
//
// The engine is whisper-ctranslate2 (a faster-whisper CLI) launched through
// uvx, so no Python environment has to be managed by hand. Settings follow
// the fast profile the pipeline needs: greedy decoding (beam size 1), voice
// activity filtering with a 500 ms minimum silence, and no conditioning on
// previous text so one bad segment does not poison the rest.
//
// Callers must hold a transcription permit for the duration of Transcribe.
package whisper

package audio

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"vidchat/internal/logging"
	"vidchat/internal/services"
	"vidchat/internal/services/ytdlp"
	"vidchat/internal/videoref"
)

type fakeFetcher struct {
	file ytdlp.AudioFile
	data []byte
	err  error
	dirs []string
}

func (f *fakeFetcher) FetchAudio(_ context.Context, _ string, dir string) (ytdlp.AudioFile, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return ytdlp.AudioFile{}, f.err
	}
	file := f.file
	file.Path = filepath.Join(dir, "audio.mp3")
	return file, os.WriteFile(file.Path, f.data, 0o644)
}

// mp3Frames builds n silent MPEG-1 Layer III frames at 128 kbps, 44.1 kHz.
func mp3Frames(n int) []byte {
	const frameSize = 417
	frame := make([]byte, frameSize)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
	return bytes.Repeat(frame, n)
}

const ref = videoref.Reference("https://youtu.be/abc")

func TestExtractUsesReportedMetadata(t *testing.T) {
	fetcher := &fakeFetcher{file: ytdlp.AudioFile{Title: "Lecture", Duration: 95}, data: []byte("x")}
	ex := NewExtractor(fetcher, t.TempDir(), logging.NewNop())
	audio, ws, err := ex.Extract(context.Background(), ref)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer ws.Close()
	if audio.Title != "Lecture" || audio.Duration != 95 {
		t.Fatalf("unexpected audio %+v", audio)
	}
	if filepath.Dir(audio.Path) != ws.Dir() || fetcher.dirs[0] != ws.Dir() {
		t.Fatalf("audio %q not in workspace %q", audio.Path, ws.Dir())
	}
}

func TestExtractDefaultsTitleAndProbesDuration(t *testing.T) {
	fetcher := &fakeFetcher{data: mp3Frames(100)}
	ex := NewExtractor(fetcher, t.TempDir(), logging.NewNop())
	audio, ws, err := ex.Extract(context.Background(), ref)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer ws.Close()
	if audio.Title != DefaultTitle {
		t.Fatalf("title = %q", audio.Title)
	}
	want := 100 * 1152.0 / 44100.0
	if math.Abs(audio.Duration-want) > 0.05 {
		t.Fatalf("duration = %v, want about %v", audio.Duration, want)
	}
}

func TestExtractFailureReturnsWorkspace(t *testing.T) {
	root := t.TempDir()
	ex := NewExtractor(&fakeFetcher{err: errors.New("403 Forbidden")}, root, logging.NewNop())
	_, ws, err := ex.Extract(context.Background(), ref)
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("err = %v, want ErrExtraction", err)
	}
	if ws == nil {
		t.Fatal("expected workspace to be returned for cleanup")
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Fatalf("workspace root not empty after close: %d entries", len(entries))
	}
}

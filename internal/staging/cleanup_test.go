package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidchat/internal/logging"
)

func makeDir(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if age > 0 {
		stamp := time.Now().Add(-age)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatalf("set time: %v", err)
		}
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldWorkspaces(t *testing.T) {
	root := t.TempDir()
	oldDir := filepath.Join(root, "audio-old")
	recentDir := filepath.Join(root, "audio-recent")
	makeDir(t, oldDir, 2*time.Hour)
	makeDir(t, recentDir, 0)

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected %s removed, got %v", oldDir, result.Removed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old workspace should have been removed")
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent workspace should still exist")
	}
}

func TestCleanStaleIgnoresFilesAndDisabledAge(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "vidchat.lock")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	_ = os.Chtimes(file, old, old)
	makeDir(t, filepath.Join(root, "captions-old"), 48*time.Hour)

	if result := CleanStale(context.Background(), root, 0, logging.NewNop()); len(result.Removed) != 0 {
		t.Fatalf("expected sweep disabled for zero age, got %v", result.Removed)
	}
	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 {
		t.Fatalf("expected only the directory removed, got %v", result.Removed)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatal("files must be left alone")
	}
}

func TestListDirectories(t *testing.T) {
	if dirs, err := ListDirectories("/nonexistent/path/12345"); err != nil || dirs != nil {
		t.Fatalf("expected nil for missing root, got %v %v", dirs, err)
	}
	root := t.TempDir()
	dir := filepath.Join(root, "audio-1")
	makeDir(t, dir, 0)
	if err := os.WriteFile(filepath.Join(dir, "audio.mp3"), make([]byte, 128), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	dirs, err := ListDirectories(root)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 1 || dirs[0].Name != "audio-1" || dirs[0].Size != 128 {
		t.Fatalf("unexpected listing: %+v", dirs)
	}
}

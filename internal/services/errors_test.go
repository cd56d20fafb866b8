package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"vidchat/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExtraction, "audio", "fetch", "yt-dlp failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "fetch", "yt-dlp failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.Wrap(services.ErrInvalidReference, "videoref", "normalize", "bad", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrMissingMessage, "chat", "respond", "", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrOverloaded, "acquisition", "admit", "low memory", nil), http.StatusServiceUnavailable},
		{services.Wrap(services.ErrModelsExhausted, "chat", "respond", "", nil), http.StatusTooManyRequests},
		{services.Wrap(services.ErrExtraction, "audio", "fetch", "", errors.New("io")), http.StatusInternalServerError},
		{nil, http.StatusOK},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestAbsorbable(t *testing.T) {
	if !services.Absorbable(services.Wrap(services.ErrNotFound, "captions", "scrape", "no tracks", nil)) {
		t.Fatal("expected not-found to be absorbable")
	}
	if services.Absorbable(services.Wrap(services.ErrExtraction, "audio", "fetch", "", nil)) {
		t.Fatal("expected extraction failure to surface")
	}
}

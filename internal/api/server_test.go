package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidchat/internal/acquisition"
	"vidchat/internal/chat"
	"vidchat/internal/logging"
	"vidchat/internal/services"
)

type acquirerStub struct {
	result acquisition.Result
	err    error
	url    string
	ctx    context.Context
}

func (a *acquirerStub) Acquire(ctx context.Context, rawURL string) (acquisition.Result, error) {
	a.url = rawURL
	a.ctx = ctx
	return a.result, a.err
}

type responderStub struct {
	reply chat.Reply
	err   error
	req   chat.Request
}

func (r *responderStub) Respond(_ context.Context, req chat.Request) (chat.Reply, error) {
	r.req = req
	return r.reply, r.err
}

type polisherStub struct{}

func (polisherStub) PolishWithModel(_ context.Context, text string) (string, string) {
	return strings.ToUpper(text), "model-a"
}

func newTestServer(h Handlers, origins ...string) http.Handler {
	return NewServer("127.0.0.1:0", origins, h, logging.NewNop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(Handlers{}), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	body := decodeMap(t, w)
	if body["status"] != "healthy" || body["uptime"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestProcessScraped(t *testing.T) {
	acq := &acquirerStub{result: acquisition.Result{
		Title:             "Talk",
		Transcript:        "Clean text.",
		Provenance:        acquisition.ProvenanceScraped,
		ProcessingSeconds: 1.23456,
	}}
	w := do(t, newTestServer(Handlers{Acquirer: acq}), http.MethodPost, "/process_full_video", `{"url":"https://youtu.be/abc"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if acq.url != "https://youtu.be/abc" {
		t.Fatalf("acquirer saw %q", acq.url)
	}
	var resp ProcessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.VideoName != "Talk" || resp.Transcript != "Clean text." {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Stats.Duration != ScrapedDuration {
		t.Fatalf("duration = %v", resp.Stats.Duration)
	}
	if resp.Stats.ProcTime != 1.23 {
		t.Fatalf("proc_time = %v", resp.Stats.ProcTime)
	}
}

func TestProcessRecognizedReportsDuration(t *testing.T) {
	d := 754.0
	acq := &acquirerStub{result: acquisition.Result{
		Title:         "Lecture",
		Transcript:    "words",
		Provenance:    acquisition.ProvenanceRecognized,
		MediaDuration: &d,
	}}
	w := do(t, newTestServer(Handlers{Acquirer: acq}), http.MethodPost, "/process_full_video", `{"url":"https://youtu.be/abc"}`)
	stats := decodeMap(t, w)["stats"].(map[string]any)
	if stats["duration"] != 754.0 {
		t.Fatalf("duration = %v", stats["duration"])
	}
}

func TestProcessDetachesFromRequestCancellation(t *testing.T) {
	acq := &acquirerStub{}
	h := newTestServer(Handlers{Acquirer: acq})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/process_full_video", strings.NewReader(`{"url":"https://youtu.be/abc"}`)).WithContext(ctx)
	req.Header.Set(requestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if acq.ctx == nil || acq.ctx.Err() != nil {
		t.Fatalf("acquisition context should not be cancelled, got %v", acq.ctx)
	}
	if id, _ := services.RequestIDFromContext(acq.ctx); id != "req-42" {
		t.Fatalf("request id = %q", id)
	}
}

func TestProcessErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid", services.Wrap(services.ErrInvalidReference, "videoref", "normalize", "Invalid YouTube URL", nil), http.StatusBadRequest, "Invalid YouTube URL"},
		{"overloaded", services.Wrap(services.ErrOverloaded, "acquisition", "admit", "Server overloaded. RAM low.", nil), http.StatusServiceUnavailable, "Server overloaded. RAM low."},
		{"extraction", services.Wrap(services.ErrExtraction, "audio", "download", "failed", errors.New("HTTP 403")), http.StatusInternalServerError, "HTTP 403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acq := &acquirerStub{err: tt.err}
			w := do(t, newTestServer(Handlers{Acquirer: acq}), http.MethodPost, "/process_full_video", `{"url":"x"}`)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			msg, _ := decodeMap(t, w)["error"].(string)
			if !strings.Contains(msg, tt.message) {
				t.Fatalf("error = %q, want it to contain %q", msg, tt.message)
			}
		})
	}
}

func TestProcessMalformedBodyIsInvalidURL(t *testing.T) {
	acq := &acquirerStub{err: services.Wrap(services.ErrInvalidReference, "videoref", "normalize", "Invalid YouTube URL", nil)}
	w := do(t, newTestServer(Handlers{Acquirer: acq}), http.MethodPost, "/process_full_video", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if acq.url != "" {
		t.Fatalf("acquirer saw %q", acq.url)
	}
}

func TestChat(t *testing.T) {
	resp := &responderStub{reply: chat.Reply{Text: "Ahoy", Model: "model-b"}}
	body := `{"message":"hi","transcript":"t","history":[{"role":"user","content":"earlier"}],"reply_style":"a pirate"}`
	w := do(t, newTestServer(Handlers{Responder: resp}), http.MethodPost, "/chat", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	out := decodeMap(t, w)
	if out["response"] != "Ahoy" || out["model_used"] != "model-b" {
		t.Fatalf("unexpected body %v", out)
	}
	if resp.req.Style != "a pirate" || len(resp.req.History) != 1 || resp.req.History[0].Content != "earlier" {
		t.Fatalf("unexpected request %+v", resp.req)
	}
}

func TestChatMissingMessage(t *testing.T) {
	resp := &responderStub{err: services.Wrap(services.ErrMissingMessage, "chat", "respond", "Message is required", nil)}
	w := do(t, newTestServer(Handlers{Responder: resp}), http.MethodPost, "/chat", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeMap(t, w)["error"] != "Message is required" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestChatExhausted(t *testing.T) {
	resp := &responderStub{err: services.Wrap(services.ErrModelsExhausted, "chat", "respond", chat.ExhaustedMessage, errors.New("quota"))}
	w := do(t, newTestServer(Handlers{Responder: resp}), http.MethodPost, "/chat", `{"message":"hi"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	out := decodeMap(t, w)
	if out["error"] != chat.ExhaustedMessage || out["status"] != "out_of_tokens" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestPolish(t *testing.T) {
	w := do(t, newTestServer(Handlers{Polisher: polisherStub{}}), http.MethodPost, "/polish", `{"text":"raw words"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := decodeMap(t, w)
	if out["text"] != "RAW WORDS" || out["model_used"] != "model-a" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	w := do(t, newTestServer(Handlers{}), http.MethodGet, "/chat", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		w := do(t, newTestServer(Handlers{}, "*"), http.MethodGet, "/health", "")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("allow-origin = %q", got)
		}
	})
	t.Run("listed origin", func(t *testing.T) {
		h := newTestServer(Handlers{}, "https://app.example")
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("preflight status = %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
			t.Fatalf("allow-origin = %q", got)
		}
	})
	t.Run("unlisted origin", func(t *testing.T) {
		h := newTestServer(Handlers{}, "https://app.example")
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("allow-origin = %q", got)
		}
	})
}

func TestServerStartStop(t *testing.T) {
	srv := NewServer("127.0.0.1:0", nil, Handlers{}, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	srv.Stop()
}

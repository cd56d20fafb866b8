package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidchat/internal/acquisition"
	"vidchat/internal/chat"
	"vidchat/internal/logging"
	"vidchat/internal/services"
)

const (
	maxBodyBytes    = 8 << 20
	requestIDHeader = "X-Request-ID"
	outOfTokens     = "out_of_tokens"
)

// Acquirer produces transcripts for video URLs.
type Acquirer interface {
	Acquire(ctx context.Context, rawURL string) (acquisition.Result, error)
}

// Responder answers chat turns.
type Responder interface {
	Respond(ctx context.Context, req chat.Request) (chat.Reply, error)
}

// Polisher formats transcript text and reports the model used.
type Polisher interface {
	PolishWithModel(ctx context.Context, text string) (string, string)
}

// Handlers are the services behind the routes.
type Handlers struct {
	Acquirer  Acquirer
	Responder Responder
	Polisher  Polisher
}

// Server is the HTTP listener.
type Server struct {
	bind     string
	origins  []string
	handlers Handlers
	logger   *slog.Logger

	listener net.Listener
	server   *http.Server
}

// NewServer builds a server bound to bind. Origins lists the values allowed
// in Access-Control-Allow-Origin; "*" allows any origin.
func NewServer(bind string, origins []string, handlers Handlers, logger *slog.Logger) *Server {
	srv := &Server{
		bind:     strings.TrimSpace(bind),
		origins:  origins,
		handlers: handlers,
		logger:   logging.NewComponentLogger(logger, "api-server"),
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the routed handler with CORS and request ids applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process_full_video", s.handleProcess)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /polish", s.handlePolish)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestID(s.withCORS(mux))
}

// Start listens on the bind address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the listener down, waiting briefly for in-flight responses.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := decodeBody(r, &req); err != nil {
		s.log(r).Debug("process request body rejected", logging.Error(err))
	}
	if s.handlers.Acquirer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "transcript acquisition unavailable")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	res, err := s.handlers.Acquirer.Acquire(ctx, req.URL)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, NewProcessResponse(res))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(r, &req); err != nil {
		s.log(r).Debug("chat request body rejected", logging.Error(err))
	}
	if s.handlers.Responder == nil {
		s.writeError(w, http.StatusServiceUnavailable, "chat unavailable")
		return
	}

	reply, err := s.handlers.Responder.Respond(r.Context(), chat.Request{
		Message:    req.Message,
		Transcript: req.Transcript,
		History:    req.History,
		Style:      req.ReplyStyle,
	})
	if err != nil {
		if errors.Is(err, services.ErrModelsExhausted) {
			s.writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: chat.ExhaustedMessage, Status: outOfTokens})
			return
		}
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ChatResponse{Response: reply.Text, ModelUsed: reply.Model})
}

func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	var req PolishRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.handlers.Polisher == nil {
		s.writeError(w, http.StatusServiceUnavailable, "polishing unavailable")
		return
	}
	text, model := s.handlers.Polisher.PolishWithModel(r.Context(), req.Text)
	s.writeJSON(w, http.StatusOK, PolishResponse{Text: text, ModelUsed: model})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Uptime: "ok"})
}

// decodeBody reads a JSON object into dst. A missing or malformed body
// leaves dst zeroed and reports the error.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return io.EOF
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	if slices.Contains(s.origins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(s.origins, origin) {
		return origin
	}
	return ""
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

// writeFailure reports err with its mapped status and the message clients
// already understand for known failure kinds.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logging.ErrorWithContext(s.log(r), "request failed", "request_failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeError(w, status, publicMessage(err))
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidReference):
		return "Invalid YouTube URL"
	case errors.Is(err, services.ErrOverloaded):
		return "Server overloaded. RAM low."
	case errors.Is(err, services.ErrMissingMessage):
		return "Message is required"
	case errors.Is(err, services.ErrModelsExhausted):
		return chat.ExhaustedMessage
	default:
		return err.Error()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

func (s *Server) log(r *http.Request) *slog.Logger {
	return logging.WithContext(r.Context(), s.logger)
}

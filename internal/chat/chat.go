// Package chat answers questions about a transcript with the text-generation
// fallback chain, keeping a caller-supplied persona and conversation memory.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidchat/internal/config"
	"vidchat/internal/fallback"
	"vidchat/internal/logging"
	"vidchat/internal/services"
	"vidchat/internal/services/llm"
)

// DefaultStyle is the persona used when a request names none.
const DefaultStyle = "a helpful and accurate AI assistant"

// ExhaustedMessage is reported when no model produced a reply.
const ExhaustedMessage = "All models exhausted. Please try again later."

// Turn is one prior message in the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat turn.
type Request struct {
	Message    string
	Transcript string
	History    []Turn
	Style      string
}

// Reply is the generated answer and the model that produced it.
type Reply struct {
	Text  string
	Model string
}

var upper = cases.Upper(language.Und)

// BuildMemory renders history as "ROLE: content" lines in order.
func BuildMemory(history []Turn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, upper.String(turn.Role)+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt assembles the grounding instructions, persona, transcript,
// memory and user message. An empty style uses DefaultStyle.
func BuildPrompt(req Request) string {
	style := req.Style
	if strings.TrimSpace(style) == "" {
		style = DefaultStyle
	}
	var b strings.Builder
	b.WriteString("--- SYSTEM INSTRUCTIONS ---\n")
	b.WriteString("1. Use the provided TRANSCRIPT to answer accurately.\n")
	b.WriteString("2. Use MEMORY for conversation context.\n")
	b.WriteString("3. ACT AS: " + style + "\n")
	b.WriteString("4. CRITICAL RULE: You MUST strictly maintain this persona/style in every sentence of your response.\n\n")
	b.WriteString("--- TRANSCRIPT ---\n" + req.Transcript + "\n\n")
	b.WriteString("--- MEMORY ---\n" + BuildMemory(req.History) + "\n\n")
	b.WriteString("USER: " + req.Message + "\n")
	return b.String()
}

// Responder answers chat turns.
type Responder struct {
	gen    llm.Generator
	models []string
	logger *slog.Logger
}

// New builds a responder that walks models in order. An empty list uses
// config.DefaultModels.
func New(gen llm.Generator, models []string, logger *slog.Logger) *Responder {
	if len(models) == 0 {
		models = config.DefaultModels()
	}
	return &Responder{
		gen:    gen,
		models: append([]string(nil), models...),
		logger: logging.NewComponentLogger(logger, "chat"),
	}
}

// Respond answers req.Message. An empty message fails with
// services.ErrMissingMessage before any generation call. When every model
// fails the error carries services.ErrModelsExhausted.
func (r *Responder) Respond(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Reply{}, services.Wrap(services.ErrMissingMessage, "chat", "respond", "Message is required", nil)
	}
	if r.gen == nil {
		return Reply{}, services.Wrap(services.ErrModelsExhausted, "chat", "respond", ExhaustedMessage,
			errors.New("no text generation backend configured"))
	}
	prompt := BuildPrompt(req)
	style := req.Style
	if strings.TrimSpace(style) == "" {
		style = DefaultStyle
	}
	chain := fallback.Chain[string, string]{
		Attempt: func(ctx context.Context, model string) (string, error) {
			r.logger.Info("attempting chat",
				logging.String(logging.FieldModel, model),
				logging.String("style", style),
			)
			return r.gen.Generate(ctx, model, prompt)
		},
		OnFailure: func(model string, err error) {
			if llm.IsQuota(err) {
				logging.WarnWithContext(r.logger, "model quota exhausted", "chat_model_quota",
					logging.String(logging.FieldModel, model),
					logging.String(logging.FieldImpact, "trying the next model"),
					logging.String(logging.FieldErrorHint, "wait for the quota window to reset or add models"),
				)
				return
			}
			logging.ErrorWithContext(r.logger, "chat model failed", "chat_model_failed",
				logging.String(logging.FieldModel, model),
				logging.Error(err),
			)
		},
	}
	model, text, err := chain.Run(ctx, r.models)
	if err != nil {
		return Reply{}, services.Wrap(services.ErrModelsExhausted, "chat", "respond", ExhaustedMessage, err)
	}
	return Reply{Text: text, Model: model}, nil
}

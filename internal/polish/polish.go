// Package polish reformats raw transcripts into readable Markdown prose with
// the text-generation fallback chain. Wording is never changed; on total
// failure the input is returned as-is.
package polish

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"vidchat/internal/config"
	"vidchat/internal/fallback"
	"vidchat/internal/logging"
	"vidchat/internal/services/llm"
)

// MinLength is the trimmed length below which text is returned untouched.
const MinLength = 10

const promptTemplate = "TASK: Reformat the raw text below into a clean, readable transcript.\n" +
	"JOB 1: Format using Markdown. Break the text into logical paragraphs.\n" +
	"JOB 2: Ensure every sentence starts with a Capital letter and ends with appropriate punctuation (. , ! or ?).\n" +
	"JOB 3: Decide when to go to the next line if a sentence ended. Cap the first word of new lines.\n" +
	"--- CRITICAL OUTPUT RULES ---\n" +
	"1. DO NOT include any introductory or concluding text (e.g., 'Here is the transcript...').\n" +
	"2. DO NOT fix typos or change speaker's words.\n" +
	"3. START the output immediately with the first word of the transcript.\n" +
	"4. Output ONLY the processed transcript and nothing else.\n" +
	"\nRAW TEXT:\n"

var preamble = regexp.MustCompile(`(?i)^(Here is|Below is|Reformatted transcript).*?:\s*`)

// BuildPrompt returns the formatting instructions followed by raw.
func BuildPrompt(raw string) string {
	return promptTemplate + raw
}

// StripPreamble trims output and removes a leading "Here is ...:" style
// introduction the model may add despite instructions.
func StripPreamble(output string) string {
	return preamble.ReplaceAllString(strings.TrimSpace(output), "")
}

// Polisher formats transcripts.
type Polisher struct {
	gen    llm.Generator
	models []string
	logger *slog.Logger
}

// New builds a polisher that walks models in order. An empty list uses
// config.DefaultModels.
func New(gen llm.Generator, models []string, logger *slog.Logger) *Polisher {
	if len(models) == 0 {
		models = config.DefaultModels()
	}
	return &Polisher{
		gen:    gen,
		models: append([]string(nil), models...),
		logger: logging.NewComponentLogger(logger, "polish"),
	}
}

// Polish returns the formatted transcript, or text unchanged when it is too
// short to bother or every model failed. It makes no generation call for
// short input.
func (p *Polisher) Polish(ctx context.Context, text string) string {
	polished, _ := p.PolishWithModel(ctx, text)
	return polished
}

// PolishWithModel is Polish that also reports which model produced the
// result. The model is empty when the input was returned unchanged.
func (p *Polisher) PolishWithModel(ctx context.Context, text string) (string, string) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinLength {
		return text, ""
	}
	if p == nil || p.gen == nil {
		return text, ""
	}
	prompt := BuildPrompt(text)
	chain := fallback.Chain[string, string]{
		Attempt: func(ctx context.Context, model string) (string, error) {
			p.logger.Info("formatting transcript", logging.String(logging.FieldModel, model))
			output, err := p.gen.Generate(ctx, model, prompt)
			if err != nil {
				return "", err
			}
			return StripPreamble(output), nil
		},
		Accept: func(output string) bool {
			return strings.TrimSpace(output) != ""
		},
		OnFailure: func(model string, err error) {
			logging.WarnWithContext(p.logger, "formatting failed", "polish_model_failed",
				logging.String(logging.FieldModel, model),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the LLM API key and model quotas"),
				logging.String(logging.FieldImpact, "trying the next model"),
			)
		},
	}
	model, output, err := chain.Run(ctx, p.models)
	if err != nil {
		logging.WarnWithContext(p.logger, "all models failed to format transcript", "polish_exhausted",
			logging.Error(err),
			logging.String(logging.FieldImpact, "raw transcript returned unformatted"),
		)
		return text, ""
	}
	return output, model
}

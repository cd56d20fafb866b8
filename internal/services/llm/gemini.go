package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig captures the settings for the Gemini API.
type GeminiConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client  *genai.Client
	timeout time.Duration
}

// NewGemini builds a client for cfg. Without an API key no SDK client is
// created and every call fails with a configuration error. A non-positive
// timeout falls back to 60 seconds per call.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	g := &GeminiClient{timeout: timeout}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return g, nil
	}
	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	g.client = client
	return g, nil
}

// Generate sends prompt to model and returns the concatenated text parts of
// the first candidate that has any.
func (g *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", errors.New("gemini generate: model required")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("gemini generate: prompt required")
	}
	if g.client == nil {
		return "", missingKeyError("generate")
	}
	text, err := g.generate(ctx, model, prompt)
	if err != nil {
		if apiStatus(err) == http.StatusTooManyRequests {
			return "", quotaError(model, err)
		}
		return "", generateError(model, err)
	}
	return text, nil
}

// HealthCheck verifies the key and model with a minimal prompt.
func (g *GeminiClient) HealthCheck(ctx context.Context, model string) error {
	if g.client == nil {
		return missingKeyError("health")
	}
	text, err := g.generate(ctx, strings.TrimSpace(model), healthPrompt)
	if err != nil {
		return fmt.Errorf("gemini health: %w", err)
	}
	if !strings.Contains(strings.ToUpper(text), "OK") {
		return fmt.Errorf("gemini health: unexpected response %q", summarizePayloadSnippet(text))
	}
	return nil
}

func (g *GeminiClient) generate(ctx context.Context, model, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(callCtx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if text := candidateText(resp); text != "" {
		return text, nil
	}
	reason := ""
	if resp != nil && resp.PromptFeedback != nil {
		reason = string(resp.PromptFeedback.BlockReason)
	}
	return "", &emptyContentError{Op: "gemini generate", FinishReason: firstFinishReason(resp), Refusal: reason, Snippet: "<no text parts>"}
}

// apiStatus returns the HTTP status carried by an SDK error, or zero.
func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			return text
		}
	}
	return ""
}

func firstFinishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate != nil && candidate.FinishReason != "" {
			return string(candidate.FinishReason)
		}
	}
	return ""
}

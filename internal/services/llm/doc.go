// Package llm provides text-generation clients for transcript polishing and
// chat.
//
// Two providers are supported:
//   - gemini: the Generative Language API through google.golang.org/api.
//   - openai: any OpenAI-compatible chat completion endpoint (OpenRouter by
//     default).
//
// Both implement Backend. The model is chosen per call so callers can walk a
// fallback list of models against one client. Quota and rate-limit refusals
// are reported as services.ErrQuotaExhausted and are never retried in place;
// the caller is expected to move on to the next model. Other transient
// failures (408, 5xx, timeouts, empty content) are retried with exponential
// backoff.
//
// FromConfig builds the configured provider.
package llm

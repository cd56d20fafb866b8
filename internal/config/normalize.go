package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeAcquisition()
	c.normalizeTools()
	c.normalizeTranscription()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.CORSOrigins = trimList(c.API.CORSOrigins, false)
}

func (c *Config) normalizeAcquisition() {
	c.Acquisition.LanguagePriority = trimList(c.Acquisition.LanguagePriority, false)
	if len(c.Acquisition.LanguagePriority) == 0 {
		c.Acquisition.LanguagePriority = DefaultLanguagePriority()
	}
	if c.Acquisition.ListRetries < 0 {
		c.Acquisition.ListRetries = 0
	}
}

func (c *Config) normalizeTools() {
	c.Tools.YTDLP = stringOr(c.Tools.YTDLP, defaultYTDLPBinary)
	c.Tools.FFmpeg = stringOr(c.Tools.FFmpeg, defaultFFmpegBinary)
	c.Tools.UVX = stringOr(c.Tools.UVX, defaultUVXBinary)
	c.Tools.NvidiaSMI = stringOr(c.Tools.NvidiaSMI, defaultNvidiaSMIBinary)
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = stringOr(c.Transcription.Model, defaultTranscriptionModel)
	c.Transcription.Device = strings.ToLower(stringOr(c.Transcription.Device, defaultTranscriptionDevice))
	c.Transcription.ComputeType = strings.ToLower(strings.TrimSpace(c.Transcription.ComputeType))
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.VADMinSilenceMS <= 0 {
		c.Transcription.VADMinSilenceMS = defaultVADMinSilenceMS
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(stringOr(c.LLM.Provider, defaultLLMProvider))

	// Environment credentials win over file values so keys can stay out of config files.
	for _, key := range llmKeyEnv(c.LLM.Provider) {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			c.LLM.APIKey = value
			break
		}
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)

	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		if c.LLM.Provider == ProviderOpenAI {
			c.LLM.BaseURL = defaultOpenAIBaseURL
		} else {
			c.LLM.BaseURL = defaultGeminiBaseURL
		}
	}
	c.LLM.Models = trimList(c.LLM.Models, true)
	if len(c.LLM.Models) == 0 {
		c.LLM.Models = DefaultModels()
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = stringOr(c.LLM.Title, defaultLLMTitle)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	for _, key := range []string{"VIDCHAT_LOG_LEVEL", "LoggingLevel"} {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
			break
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func llmKeyEnv(provider string) []string {
	if provider == ProviderOpenAI {
		return []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY"}
	}
	return []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
}

func stringOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// trimList drops blank entries and, when dedupe is set, repeated ones while
// keeping the original order.
func trimList(values []string, dedupe bool) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if dedupe {
			if _, ok := seen[trimmed]; ok {
				continue
			}
			seen[trimmed] = struct{}{}
		}
		out = append(out, trimmed)
	}
	return out
}

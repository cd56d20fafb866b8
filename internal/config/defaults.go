package config

const (
	defaultConfigPath                = "~/.config/vidchat/config.toml"
	defaultWorkDir                   = "~/.local/share/vidchat/work"
	defaultLogDir                    = "~/.local/share/vidchat/logs"
	defaultAPIBind                   = "127.0.0.1:5001"
	defaultMemoryFloorMB             = 1024
	defaultGPUParallelTranscriptions = 8
	defaultListRetries               = 3
	defaultStaleWorkspaceHours       = 6
	defaultYTDLPBinary               = "yt-dlp"
	defaultFFmpegBinary              = "ffmpeg"
	defaultUVXBinary                 = "uvx"
	defaultNvidiaSMIBinary           = "nvidia-smi"
	defaultTranscriptionModel        = "base"
	defaultTranscriptionDevice       = "auto"
	defaultVADMinSilenceMS           = 500
	defaultLLMProvider               = ProviderGemini
	defaultGeminiBaseURL             = "https://generativelanguage.googleapis.com/"
	defaultOpenAIBaseURL             = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMTitle                  = "vidchat"
	defaultLLMTimeoutSeconds         = 60
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
)

// Supported text-generation providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Supported transcription devices.
const (
	DeviceAuto = "auto"
	DeviceCUDA = "cuda"
	DeviceCPU  = "cpu"
)

// DefaultLanguagePriority is the caption language order tried on the fast path.
func DefaultLanguagePriority() []string {
	return []string{"en", "en-orig", "en-en", "en-US", "es", "fr", "de", "ja", "ko", "zh-Hans"}
}

// DefaultModels is the text-generation fallback order.
func DefaultModels() []string {
	return []string{"gemini-2.5-flash-lite", "gemini-3-flash-preview", "gemini-2.5-flash"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			Bind:        defaultAPIBind,
			CORSOrigins: []string{"*"},
		},
		Acquisition: Acquisition{
			MemoryFloorMB:       defaultMemoryFloorMB,
			LanguagePriority:    DefaultLanguagePriority(),
			ListRetries:         defaultListRetries,
			StaleWorkspaceHours: defaultStaleWorkspaceHours,
		},
		Tools: Tools{
			YTDLP:     defaultYTDLPBinary,
			FFmpeg:    defaultFFmpegBinary,
			UVX:       defaultUVXBinary,
			NvidiaSMI: defaultNvidiaSMIBinary,
		},
		Transcription: Transcription{
			Model:           defaultTranscriptionModel,
			Device:          defaultTranscriptionDevice,
			VADMinSilenceMS: defaultVADMinSilenceMS,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			Models:         DefaultModels(),
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

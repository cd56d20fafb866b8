package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains working and log directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir" yaml:"work_dir"`
	LogDir  string `toml:"log_dir" yaml:"log_dir"`
}

// API contains HTTP listener configuration.
type API struct {
	Bind        string   `toml:"bind" yaml:"bind"`
	CORSOrigins []string `toml:"cors_origins" yaml:"cors_origins"`
}

// Acquisition contains admission, concurrency, and fast-path settings.
type Acquisition struct {
	// MemoryFloorMB is the minimum available memory required to admit a request.
	MemoryFloorMB int `toml:"memory_floor_mb" yaml:"memory_floor_mb"`
	// MaxParallelTranscriptions overrides the permit count. 0 derives it from hardware.
	MaxParallelTranscriptions int `toml:"max_parallel_transcriptions" yaml:"max_parallel_transcriptions"`
	// PermitTimeoutSeconds bounds how long a request queues for a permit. 0 waits forever.
	PermitTimeoutSeconds int      `toml:"permit_timeout_seconds" yaml:"permit_timeout_seconds"`
	LanguagePriority     []string `toml:"language_priority" yaml:"language_priority"`
	ListRetries          int      `toml:"list_retries" yaml:"list_retries"`
	StaleWorkspaceHours  int      `toml:"stale_workspace_hours" yaml:"stale_workspace_hours"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	YTDLP     string `toml:"yt_dlp" yaml:"yt_dlp"`
	FFmpeg    string `toml:"ffmpeg" yaml:"ffmpeg"`
	UVX       string `toml:"uvx" yaml:"uvx"`
	NvidiaSMI string `toml:"nvidia_smi" yaml:"nvidia_smi"`
}

// Transcription contains speech recognition settings.
type Transcription struct {
	Model           string `toml:"model" yaml:"model"`
	Device          string `toml:"device" yaml:"device"`
	ComputeType     string `toml:"compute_type" yaml:"compute_type"`
	VADMinSilenceMS int    `toml:"vad_min_silence_ms" yaml:"vad_min_silence_ms"`
	Language        string `toml:"language" yaml:"language"`
}

// LLM contains text-generation provider settings shared by polishing and chat.
type LLM struct {
	Provider       string   `toml:"provider" yaml:"provider"`
	APIKey         string   `toml:"api_key" yaml:"api_key"`
	BaseURL        string   `toml:"base_url" yaml:"base_url"`
	Models         []string `toml:"models" yaml:"models"`
	Referer        string   `toml:"referer" yaml:"referer"`
	Title          string   `toml:"title" yaml:"title"`
	TimeoutSeconds int      `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
}

// Config encapsulates all configuration values for vidchat.
//
// Configuration sections by subsystem:
//   - Paths: scratch workspace root and log directory
//   - API: HTTP bind address and CORS origins
//   - Acquisition: memory floor, transcription permits, caption language priority
//   - Tools: yt-dlp, ffmpeg, uvx, and nvidia-smi binaries
//   - Transcription: whisper model, device, and VAD settings
//   - LLM: provider, credentials, and the model fallback list
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths" yaml:"paths"`
	API           API           `toml:"api" yaml:"api"`
	Acquisition   Acquisition   `toml:"acquisition" yaml:"acquisition"`
	Tools         Tools         `toml:"tools" yaml:"tools"`
	Transcription Transcription `toml:"transcription" yaml:"transcription"`
	LLM           LLM           `toml:"llm" yaml:"llm"`
	Logging       Logging       `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A .env file in
// the working directory is loaded first so credentials kept there reach the
// environment fallbacks. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := decode(resolvedPath, data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	for _, name := range []string{"vidchat.toml", "vidchat.yaml"} {
		projectPath, err := filepath.Abs(name)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
			return projectPath, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the work and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TranscriptionPermits returns the permit pool capacity. An explicit
// max_parallel_transcriptions wins; otherwise CUDA hosts get the parallel
// limit and CPU hosts are serialized.
func (c *Config) TranscriptionPermits(cudaAvailable bool) int {
	if c.Acquisition.MaxParallelTranscriptions > 0 {
		return c.Acquisition.MaxParallelTranscriptions
	}
	if cudaAvailable {
		return defaultGPUParallelTranscriptions
	}
	return 1
}

// PermitTimeout returns how long a request waits for a transcription permit.
// Zero means wait indefinitely.
func (c *Config) PermitTimeout() time.Duration {
	if c.Acquisition.PermitTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Acquisition.PermitTimeoutSeconds) * time.Second
}

// MemoryFloorBytes returns the admission memory floor in bytes.
func (c *Config) MemoryFloorBytes() uint64 {
	if c.Acquisition.MemoryFloorMB <= 0 {
		return 0
	}
	return uint64(c.Acquisition.MemoryFloorMB) * 1024 * 1024
}

// StaleWorkspaceAge returns the age after which leftover workspaces are swept.
func (c *Config) StaleWorkspaceAge() time.Duration {
	return time.Duration(c.Acquisition.StaleWorkspaceHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

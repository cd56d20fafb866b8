package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"vidchat/internal/language"
)

// Service provides speech recognition.
type Service struct {
	cfg           Config
	uvxBinary     string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config, uvxBinary string) *Service {
	if uvxBinary == "" {
		uvxBinary = UVXCommand
	}
	return &Service{cfg: cfg, uvxBinary: uvxBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether the GPU device is selected.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDA
}

// ComputeType returns the effective quantization.
func (s *Service) ComputeType() string {
	if s.cfg.ComputeType != "" {
		return s.cfg.ComputeType
	}
	if s.cfg.CUDA {
		return CUDAComputeType
	}
	return CPUComputeType
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe recognizes speech in the audio file and returns the segment
// texts joined with single spaces. The engine writes its JSON output next to
// the source file.
func (s *Service) Transcribe(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", errors.New("transcribe: source path required")
	}
	if _, err := os.Stat(source); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	outputDir := filepath.Dir(source)
	if err := s.run(ctx, s.uvxBinary, s.buildArgs(source, outputDir)...); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	segments, err := LoadSegments(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	return JoinSegments(segments), nil
}

func (s *Service) buildArgs(source, outputDir string) []string {
	silence := s.cfg.VADMinSilenceMS
	if silence <= 0 {
		silence = DefaultVADMinSilenceMS
	}
	device := CPUDevice
	if s.cfg.CUDA {
		device = CUDADevice
	}
	args := []string{
		EnginePackage,
		source,
		"--model", s.Model(),
		"--device", device,
		"--compute_type", s.ComputeType(),
		"--beam_size", BeamSize,
		"--vad_filter", "True",
		"--vad_min_silence_duration_ms", strconv.Itoa(silence),
		"--condition_on_previous_text", "False",
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if lang := language.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

// Segment represents a transcribed segment from the engine's JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type payload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from an engine JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	return p.Segments, nil
}

// JoinSegments trims each segment and joins the non-empty ones with single
// spaces.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

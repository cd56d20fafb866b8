package whisper

// Config captures runtime settings for transcription.
type Config struct {
	// Model is the Whisper model name (e.g., "base", "small", "large-v3").
	Model string
	// CUDA selects the GPU device.
	CUDA bool
	// ComputeType overrides the quantization; empty picks float16 on CUDA
	// and int8 on CPU.
	ComputeType string
	// VADMinSilenceMS is the minimum silence that splits speech segments.
	VADMinSilenceMS int
	// Language forces the spoken language; empty lets the engine detect it.
	Language string
}

// Engine configuration constants.
const (
	DefaultModel           = "base"
	DefaultVADMinSilenceMS = 500
	EnginePackage          = "whisper-ctranslate2"
	BeamSize               = "1"
	OutputFormat           = "json"
	CPUDevice              = "cpu"
	CUDADevice             = "cuda"
	CPUComputeType         = "int8"
	CUDAComputeType        = "float16"
)

// UVXCommand is the default launcher binary.
const UVXCommand = "uvx"

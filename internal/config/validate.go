package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAcquisition() error {
	if c.Acquisition.MemoryFloorMB < 0 {
		return errors.New("acquisition.memory_floor_mb must be >= 0")
	}
	if c.Acquisition.MaxParallelTranscriptions < 0 {
		return errors.New("acquisition.max_parallel_transcriptions must be >= 0 (0 selects from hardware)")
	}
	if c.Acquisition.PermitTimeoutSeconds < 0 {
		return errors.New("acquisition.permit_timeout_seconds must be >= 0 (0 waits indefinitely)")
	}
	if len(c.Acquisition.LanguagePriority) == 0 {
		return errors.New("acquisition.language_priority must include at least one language")
	}
	if c.Acquisition.StaleWorkspaceHours < 0 {
		return errors.New("acquisition.stale_workspace_hours must be >= 0")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Device {
	case DeviceAuto, DeviceCUDA, DeviceCPU:
	default:
		return fmt.Errorf("transcription.device must be one of auto, cuda, cpu (got %q)", c.Transcription.Device)
	}
	switch c.Transcription.ComputeType {
	case "", "float16", "float32", "int8", "int8_float16":
	default:
		return fmt.Errorf("transcription.compute_type %q is not supported", c.Transcription.ComputeType)
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q (got %q)", ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if len(c.LLM.Models) == 0 {
		return errors.New("llm.models must include at least one model")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}

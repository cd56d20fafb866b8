// Package deps checks for the external binaries the pipeline shells out to
// and probes the host for GPU support.
package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vidchat/internal/config"
)

// Requirement defines an external dependency vidchat relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries named in the configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "yt-dlp", Command: cfg.Tools.YTDLP, Description: "Caption listing and audio download"},
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Audio transcoding for yt-dlp"},
		{Name: "uvx", Command: cfg.Tools.UVX, Description: "Launches the speech recognition engine"},
		{Name: "nvidia-smi", Command: cfg.Tools.NvidiaSMI, Description: "CUDA detection", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// GPU describes the CUDA probe result.
type GPU struct {
	Available bool
	Devices   []string
	Detail    string
}

const cudaProbeTimeout = 10 * time.Second

// DetectCUDA lists NVIDIA devices with `nvidia-smi -L`. A missing binary,
// a failing command, or an empty device list all report no CUDA.
func DetectCUDA(ctx context.Context, nvidiaSMI string) GPU {
	nvidiaSMI = strings.TrimSpace(nvidiaSMI)
	if nvidiaSMI == "" {
		return GPU{Detail: "nvidia-smi not configured"}
	}
	path, err := exec.LookPath(nvidiaSMI)
	if err != nil {
		return GPU{Detail: fmt.Sprintf("binary %q not found", nvidiaSMI)}
	}
	ctx, cancel := context.WithTimeout(ctx, cudaProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "-L").Output() //nolint:gosec
	if err != nil {
		return GPU{Detail: fmt.Sprintf("nvidia-smi failed: %v", err)}
	}
	devices := parseDeviceList(out)
	if len(devices) == 0 {
		return GPU{Detail: "no CUDA devices reported"}
	}
	return GPU{Available: true, Devices: devices, Detail: strings.Join(devices, "; ")}
}

func parseDeviceList(out []byte) []string {
	var devices []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "GPU ") {
			devices = append(devices, line)
		}
	}
	return devices
}

// ResolveCUDA applies the configured transcription device: "cuda" and "cpu"
// are taken as given, "auto" probes the host.
func ResolveCUDA(ctx context.Context, cfg *config.Config) GPU {
	switch cfg.Transcription.Device {
	case config.DeviceCUDA:
		return GPU{Available: true, Detail: "forced by configuration"}
	case config.DeviceCPU:
		return GPU{Detail: "disabled by configuration"}
	default:
		return DetectCUDA(ctx, cfg.Tools.NvidiaSMI)
	}
}

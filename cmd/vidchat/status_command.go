package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidchat/internal/config"
	"vidchat/internal/deps"
	"vidchat/internal/language"
	"vidchat/internal/preflight"
	"vidchat/internal/services/whisper"
	"vidchat/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show host readiness, dependencies, and scratch workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			w := newStatusWriter(cmd.OutOrStdout())

			w.section("System Status")
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := passFail(result.Passed, statusError)
				if result.Name == "LLM" && !result.Passed {
					kind = statusWarn
				}
				w.line(result.Name, kind, result.Detail)
			}
			w.blank()

			w.section("Transcription")
			for _, line := range transcriptionLines(cmd, cfg) {
				w.line(line.label, line.kind, line.detail)
			}
			w.blank()

			w.section("Dependencies")
			for _, line := range dependencyLines(preflight.CheckSystemDeps(cfg)) {
				w.line(line.label, line.kind, line.detail)
			}
			w.blank()

			w.section("Workspaces")
			dirs, err := staging.ListDirectories(cfg.Paths.WorkDir)
			if err != nil {
				w.line("Work directory", statusError, err.Error())
				return nil
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workspaces")
				return nil
			}
			w.table([]string{"Workspace", "Age", "Size"}, workspaceRows(dirs, time.Now()), 2, 3)
			return nil
		},
	}
}

type statusEntry struct {
	label  string
	kind   statusKind
	detail string
}

func transcriptionLines(cmd *cobra.Command, cfg *config.Config) []statusEntry {
	gpu := deps.ResolveCUDA(cmd.Context(), cfg)
	recognizer := whisper.NewService(whisper.Config{
		Model:       cfg.Transcription.Model,
		CUDA:        gpu.Available,
		ComputeType: cfg.Transcription.ComputeType,
	}, cfg.Tools.UVX)
	permits := cfg.TranscriptionPermits(gpu.Available)
	mode := "queue"
	if permits > 1 {
		mode = "parallel"
	}
	return []statusEntry{
		{"CUDA", passFail(gpu.Available, statusInfo), fmt.Sprintf("%s (%s)", yesNo(gpu.Available), gpu.Detail)},
		{"Mode", statusInfo, fmt.Sprintf("%s, %d permit(s)", mode, permits)},
		{"Model", statusInfo, fmt.Sprintf("%s (%s)", recognizer.Model(), recognizer.ComputeType())},
		{"Memory floor", statusInfo, humanize.IBytes(cfg.MemoryFloorBytes())},
		{"Caption languages", statusInfo, strings.Join(language.DescribeAll(cfg.Acquisition.LanguagePriority), ", ")},
	}
}

func dependencyLines(statuses []deps.Status) []statusEntry {
	lines := make([]statusEntry, 0, len(statuses)+1)
	var missing, missingRequired []string
	for _, dep := range statuses {
		if dep.Available {
			lines = append(lines, statusEntry{dep.Name, statusOK, fmt.Sprintf("Ready (command: %s)", dep.Command)})
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		} else {
			missingRequired = append(missingRequired, dep.Name)
		}
		lines = append(lines, statusEntry{dep.Name, kind, detail})
		missing = append(missing, dep.Name)
	}
	summary := statusEntry{"Summary", statusOK, fmt.Sprintf("All %d dependencies available", len(statuses))}
	switch {
	case len(missingRequired) > 0:
		summary = statusEntry{"Summary", statusError, "Missing required: " + strings.Join(missingRequired, ", ")}
	case len(missing) > 0:
		summary = statusEntry{"Summary", statusWarn, "Missing optional: " + strings.Join(missing, ", ")}
	}
	return append([]statusEntry{summary}, lines...)
}

func workspaceRows(dirs []staging.DirInfo, now time.Time) [][]string {
	rows := make([][]string, 0, len(dirs))
	for _, dir := range dirs {
		rows = append(rows, []string{
			dir.Name,
			humanize.RelTime(dir.ModTime, now, "ago", "from now"),
			humanize.IBytes(uint64(max(dir.Size, 0))),
		})
	}
	return rows
}

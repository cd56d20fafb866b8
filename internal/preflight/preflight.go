package preflight

import (
	"context"

	"vidchat/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the readiness checks for the given config. The LLM check
// is skipped when no API key is configured; polishing then degrades to the
// raw transcript and chat is unavailable.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckMemory(AvailableMemory, cfg.MemoryFloorBytes()),
	}
	if cfg.LLM.APIKey == "" {
		results = append(results, Result{Name: "LLM", Detail: "API key missing (polish disabled, chat unavailable)"})
		return results
	}
	return append(results, CheckLLM(ctx, "LLM", cfg.LLM))
}

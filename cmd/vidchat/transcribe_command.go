package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidchat/internal/api"
	"vidchat/internal/services"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "transcribe <url>",
		Short: "Acquire and polish the transcript of one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := ctx.logger()
			runCtx := services.WithRequestID(cmd.Context(), uuid.NewString())

			rt := buildRuntime(runCtx, cfg, logger)
			rt.logMode(logger)
			res, err := rt.acquirer.Acquire(runCtx, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			resp := api.NewProcessResponse(res)
			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:    %s\n", resp.VideoName)
			fmt.Fprintf(out, "Source:   %s\n", res.Provenance)
			fmt.Fprintf(out, "Duration: %s\n", formatDuration(resp.Stats.Duration))
			fmt.Fprintf(out, "Elapsed:  %.2fs\n\n", resp.Stats.ProcTime)
			fmt.Fprintln(out, resp.Transcript)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the API response body instead of text")
	return cmd
}

func formatDuration(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *float64:
		if v == nil {
			return "unknown"
		}
		return fmt.Sprintf("%.0fs", *v)
	default:
		return "unknown"
	}
}

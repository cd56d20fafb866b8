package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vidchat/internal/api"
	"vidchat/internal/polish"
)

func newPolishCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "polish [file|-]",
		Short: "Format raw transcript text with the configured LLM",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			raw, err := readInput(cmd, source)
			if err != nil {
				return err
			}

			logger := ctx.logger()
			polisher := polish.New(newTextBackend(cmd.Context(), cfg, logger), cfg.LLM.Models, logger)
			text, model := polisher.PolishWithModel(cmd.Context(), raw)
			if jsonOutput {
				return writeJSON(cmd, api.PolishResponse{Text: text, ModelUsed: model})
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print text and model as JSON")
	return cmd
}

// readInput reads a whole file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

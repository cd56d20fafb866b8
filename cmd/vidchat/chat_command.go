package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidchat/internal/api"
	"vidchat/internal/chat"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var (
		transcriptPath string
		historyPath    string
		message        string
		style          string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask a question about a transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if strings.TrimSpace(transcriptPath) == "" {
				return errors.New("--transcript is required")
			}
			transcript, err := readInput(cmd, transcriptPath)
			if err != nil {
				return err
			}
			var history []chat.Turn
			if strings.TrimSpace(historyPath) != "" {
				data, err := readInput(cmd, historyPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal([]byte(data), &history); err != nil {
					return fmt.Errorf("parse history %s: %w", historyPath, err)
				}
			}

			logger := ctx.logger()
			responder := chat.New(newTextBackend(cmd.Context(), cfg, logger), cfg.LLM.Models, logger)
			reply, err := responder.Respond(cmd.Context(), chat.Request{
				Message:    message,
				Transcript: transcript,
				History:    history,
				Style:      style,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, api.ChatResponse{Response: reply.Text, ModelUsed: reply.Model})
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Transcript file (- for stdin)")
	cmd.Flags().StringVar(&historyPath, "history", "", "JSON file of prior turns ([{role, content}])")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Question to ask")
	cmd.Flags().StringVar(&style, "style", "", "Reply persona (default: "+chat.DefaultStyle+")")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print response and model as JSON")
	return cmd
}

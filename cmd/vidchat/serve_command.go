package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"vidchat/internal/api"
	"vidchat/internal/logging"
	"vidchat/internal/staging"
)

const lockFileName = "vidchat.lock"

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := ctx.logger()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			lockPath := filepath.Join(cfg.Paths.WorkDir, lockFileName)
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another vidchat server is already using " + cfg.Paths.WorkDir)
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release server lock", logging.Error(err))
				}
			}()

			swept := staging.CleanStale(signalCtx, cfg.Paths.WorkDir, cfg.StaleWorkspaceAge(), logger)
			if len(swept.Removed) > 0 || len(swept.Errors) > 0 {
				logger.Info("stale workspaces swept",
					logging.Int("removed", len(swept.Removed)),
					logging.Int("failed", len(swept.Errors)),
				)
			}

			rt := buildRuntime(signalCtx, cfg, logger)
			rt.logMode(logger)

			bind := cfg.API.Bind
			if bindFlag != "" {
				bind = bindFlag
			}
			server := api.NewServer(bind, cfg.API.CORSOrigins, api.Handlers{
				Acquirer:  rt.acquirer,
				Responder: rt.responder,
				Polisher:  rt.polisher,
			}, logger)
			if err := server.Start(signalCtx); err != nil {
				return err
			}
			logger.Info("vidchat server started",
				logging.String("address", server.Addr()),
				logging.String("lock", lockPath),
				logging.String("config", ctx.configPath),
			)

			<-signalCtx.Done()
			logger.Info("vidchat server shutting down")
			server.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Override the configured listen address")
	return cmd
}

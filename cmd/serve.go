package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/WebDbAssistant/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `serve exposes sessions over HTTP. Each session keeps its own conversation,
database selection, prompt customisation and model options in memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newComponents()
		handler := server.NewHandler(server.Dependencies{
			Service:  c.service,
			Exporter: c.executor,
			Logger:   logger,
			Defaults: defaultOptions(),
			Database: cfg.Database,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("configuration loaded",
			slog.String("model", cfg.LLM.Model),
			slog.Bool("auto_execute", cfg.LLM.AutoExecute),
			slog.String("database", cfg.Database.String()),
		)
		return server.Run(ctx, cfg, handler, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

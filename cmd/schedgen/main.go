// Command schedgen generates a personalized 24-hour daily schedule from a
// JSON ScheduleInputData document and prints the resulting GeneratedSchedule
// as JSON.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/auratyme/schedgen/pkg/config"
	"github.com/auratyme/schedgen/pkg/observability"
	"github.com/spf13/cobra"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development", LogLevel: "info"}
	}

	if cfg.IsDevelopment() {
		devCfg := observability.DefaultLogConfig()
		devCfg.Level = observability.LogLevelDebug
		logger = observability.NewLogger(devCfg)
	}

	root := newRootCmd(cfg, logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "schedgen",
		Short: "Generate a personalized 24-hour daily schedule",
	}

	root.AddCommand(newGenerateCmd(cfg, logger))
	root.AddCommand(newHealthCmd(cfg, logger))
	return root
}

// Command journalctl is the operator CLI for the memories database.
//
//	journalctl migrate up|down|status
//	journalctl seed [--file fixtures.yaml] [--replace] [--dry-run]
//	journalctl stats [--json]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uAvicii/0718/internal/app"
	"github.com/uAvicii/0718/internal/config"
)

var configFlag string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "journalctl",
		Short:         "Manage the memories database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", os.Getenv("CONFIG_PATH"), "path to config YAML")
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newStatsCmd())
	return root
}

// env is what every subcommand needs once configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadFrom(configFlag)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: app.NewLogger(cfg.Log)}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

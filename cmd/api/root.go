package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"parcelmama/pkg/config"
	"parcelmama/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "parcelmama",
	Short: "Parcel booking and delivery backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded
		logger.Setup(cfg.Environment, cfg.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the CLI; SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, tokenCmd, indexesCmd)
}

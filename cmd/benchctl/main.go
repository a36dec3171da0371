// Package main implements benchctl, the operator CLI for corpus ingestion and ad-hoc matching.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bench-match-go/internal/bootstrap"
	"bench-match-go/internal/config"
	"bench-match-go/pkg/log"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "benchctl",
	Short: "BenchMatch operator tool",
	Long:  "benchctl rebuilds the employee vector corpus and runs ad-hoc matches against it using the same configuration as the API server.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		log.Init("warn", "console", "")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs/config.yaml", "Path to config YAML")
}

// openApp loads the config and wires every dependency the commands need.
func openApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer log.Sync()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

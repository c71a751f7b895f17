package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdondlinger/groqee/internal/config"
	"github.com/jdondlinger/groqee/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "groqee",
	Short: "Groqee — a voice-capable AI companion",
	Long:  `Groqee is a personal AI companion that remembers who you are across sessions.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}

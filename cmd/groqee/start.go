package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jdondlinger/groqee/pkg/log"
	"github.com/jdondlinger/groqee/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Groqee services",
	Long:  `Initializes and starts all configured transports (terminal UI, Telegram, web) and the background memory analyzer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting groqee")

		services := NewServices(ctx)

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("groqee has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

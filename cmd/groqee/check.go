package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdondlinger/groqee/internal/config"
	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/internal/providers/llm"
	"github.com/jdondlinger/groqee/pkg/log"
	"github.com/jdondlinger/groqee/pkg/retry"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Groqee setup",
	Long:  `Checks the runtime directory, persona catalog, API credential, and reachability of the chat endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		groqCfg := config.NewGroqConfig(ctx, appCfg.RuntimePath)

		ok := true

		if _, err := os.Stat(appCfg.RuntimePath); err != nil {
			fmt.Printf("✗ runtime directory missing: %s\n", appCfg.RuntimePath)
			ok = false
		} else {
			fmt.Printf("✓ runtime directory: %s\n", appCfg.RuntimePath)
		}

		if _, err := os.Stat(appCfg.GetCatalogPath()); err != nil {
			fmt.Printf("- persona catalog not found (built-in persona will be used): %s\n", appCfg.GetCatalogPath())
		} else {
			fmt.Printf("✓ persona catalog: %s\n", appCfg.GetCatalogPath())
		}

		if groqCfg.APIKey == "" {
			fmt.Println("✗ no API key: set GROQ_API_KEY or create groq_api_key.txt")
			return fmt.Errorf("setup incomplete")
		}
		fmt.Println("✓ API key configured")

		// Ping the chat endpoint with a minimal request. Transient failures
		// are retried with backoff before we call the endpoint unreachable.
		chat := llm.NewGroq(groqCfg.BaseURL, groqCfg.APIKey, groqCfg.ChatModel)
		err := retry.NewDefaultRetrier().Do(ctx, func() error {
			_, cerr := chat.Chat(ctx, []core.Message{
				{Role: core.RoleUser, Content: "ping"},
			}, core.ChatOptions{MaxTokens: 5})
			return cerr
		})
		if err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("chat endpoint check failed")
			fmt.Printf("✗ chat endpoint unreachable: %v\n", err)
			return fmt.Errorf("setup incomplete")
		}
		fmt.Printf("✓ chat endpoint reachable (%s)\n", groqCfg.ChatModel)

		if !ok {
			return fmt.Errorf("setup incomplete")
		}
		fmt.Println("All checks passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

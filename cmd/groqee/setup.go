package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/jdondlinger/groqee/internal/config"
	"github.com/jdondlinger/groqee/internal/conversation"
	"github.com/jdondlinger/groqee/internal/providers/llm"
	"github.com/jdondlinger/groqee/internal/service/companion"
	"github.com/jdondlinger/groqee/internal/storage/sqlite"
	"github.com/jdondlinger/groqee/internal/transport/telegram"
	"github.com/jdondlinger/groqee/internal/transport/tui"
	"github.com/jdondlinger/groqee/internal/transport/web"
	"github.com/jdondlinger/groqee/pkg/log"
	"github.com/jdondlinger/groqee/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	groqCfg := config.NewGroqConfig(ctx, appCfg.RuntimePath)

	// 2. Chat provider
	chat := llm.NewGroq(groqCfg.BaseURL, groqCfg.APIKey, groqCfg.ChatModel)

	// 3. Conversation store
	store := conversation.New(ctx, conversation.Config{
		PersonaName: appCfg.Persona,
		CatalogPath: appCfg.GetCatalogPath(),
		MemoryPath:  appCfg.GetMemoryPath(),
		Credential:  groqCfg.APIKey,
	}, chat)

	// 4. Transcript archive
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	transcript := sqlite.NewTranscript(db)

	// 5. Companion service
	comp := companion.New(store, chat, transcript, appCfg.GetPromptTunerPath())

	// 6. Background memory analyzer
	services = append(services, companion.NewAnalyzer(comp, appCfg.AnalysisInterval))

	// 7. Transports
	services = append(services, initTransports(ctx, appCfg, comp, transcript)...)

	return services
}

func initTransports(ctx context.Context, cfg *config.AppConfig, comp *companion.Companion, transcript *sqlite.Transcript) []srv.Service {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	if cfg.EnableTUI {
		services = append(services, tui.NewApp(comp))
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, comp)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if cfg.EnableWeb {
		webCfg := config.NewWebConfig(ctx, cfg.RuntimePath)
		services = append(services, web.NewServer(ctx, webCfg, comp, transcript))
	}

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jdondlinger/groqee/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"GROQEE_RUNTIME_PATH" envDefault:".groqee"`
	Persona     string `env:"GROQEE_PERSONA" envDefault:"Default"`

	// Transport flags
	EnableTUI      bool `env:"GROQEE_ENABLE_TUI" envDefault:"true"`
	EnableTelegram bool `env:"GROQEE_ENABLE_TELEGRAM" envDefault:"false"`
	EnableWeb      bool `env:"GROQEE_ENABLE_WEB" envDefault:"false"`

	// How often the background analyzer extracts user facts from the
	// conversation tail.
	AnalysisInterval time.Duration `env:"GROQEE_ANALYSIS_INTERVAL" envDefault:"5m"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if !filepath.IsAbs(c.RuntimePath) {
		c.RuntimePath = GetRuntimePath()
	}
	return c
}

func (c AppConfig) GetMemoryPath() string {
	return filepath.Join(c.RuntimePath, "memory.json")
}

func (c AppConfig) GetCatalogPath() string {
	return filepath.Join(c.RuntimePath, "personas.json")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "groqee.db")
}

func (c AppConfig) GetAudioPath() string {
	return filepath.Join(c.RuntimePath, "audio")
}

func (c AppConfig) GetPromptTunerPath() string {
	return filepath.Join(c.RuntimePath, "prompt_tuner.json")
}

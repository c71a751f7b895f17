package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/jdondlinger/groqee/pkg/log"
)

type WebConfig struct {
	Addr      string `env:"GROQEE_WEB_ADDR" envDefault:":8787"`
	StaticDir string `env:"GROQEE_WEB_STATIC"`
}

func NewWebConfig(ctx context.Context, runtimePath string) *WebConfig {
	c := &WebConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Web config")
	}
	if c.StaticDir == "" {
		c.StaticDir = filepath.Join(runtimePath, "static")
	}
	return c
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/jdondlinger/groqee/pkg/log"
)

// GroqConfig covers all three remote services: chat completion, extraction
// (same endpoint, different request), and speech synthesis. The API key is
// deliberately not required: a missing credential is a first-class condition
// the conversation core reports per operation.
type GroqConfig struct {
	APIKey      string `env:"GROQ_API_KEY"`
	BaseURL     string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai"`
	ChatModel   string `env:"GROQ_CHAT_MODEL" envDefault:"llama3-70b-8192"`
	SpeechModel string `env:"GROQ_SPEECH_MODEL" envDefault:"playai-tts"`
	Voice       string `env:"GROQ_VOICE" envDefault:"Aaliyah-PlayAI"`
}

func NewGroqConfig(ctx context.Context, runtimePath string) *GroqConfig {
	logger := log.FromCtx(ctx)

	c := &GroqConfig{}
	if err := env.Parse(c); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse Groq config")
	}

	if c.APIKey == "" {
		c.APIKey = readKeyFile(filepath.Join(runtimePath, "groq_api_key.txt"))
	}
	if c.APIKey == "" {
		logger.Warn().Msg("no Groq API key found; set GROQ_API_KEY or create groq_api_key.txt")
	}
	return c
}

func readKeyFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

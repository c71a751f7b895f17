package llm

import (
	"github.com/jdondlinger/groqee/internal/core"
)

// Groq is the hosted chat completion endpoint the companion talks to.
type Groq struct {
	*OpenAICompatible
}

func NewGroq(baseURL, apiKey, model string) *Groq {
	return &Groq{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraHeaders: map[string]string{
				"User-Agent": core.AppUserAgent,
			},
		}),
	}
}

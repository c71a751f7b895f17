package core

import "context"

// ChatOptions tune a single completion request.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
	// JSONObject asks the endpoint to return a single JSON object as the
	// completion content (used by extraction requests).
	JSONObject bool
}

// ChatProvider is the chat completion endpoint: an ordered list of role-tagged
// messages in, one assistant completion out.
type ChatProvider interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

// SpeechProvider is the text-to-speech endpoint: text in, raw audio bytes out.
type SpeechProvider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

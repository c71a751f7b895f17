package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jdondlinger/groqee/internal/core"
)

// Groq calls the hosted speech synthesis endpoint and returns raw WAV bytes.
type Groq struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	voice   string
}

func NewGroq(baseURL, apiKey, model, voice string) *Groq {
	return &Groq{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		voice:   voice,
	}
}

func (g *Groq) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if g.apiKey == "" {
		return nil, core.ErrMissingCredential
	}

	payload := map[string]any{
		"model":           g.model,
		"input":           text,
		"voice":           g.voice,
		"response_format": "wav",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/audio/speech", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &core.RemoteServiceError{Service: "speech", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.RemoteServiceError{Service: "speech", Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &core.RemoteServiceError{Service: "speech", Status: resp.StatusCode, Err: fmt.Errorf("%s", string(body))}
	}
	return body, nil
}

package llm

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

// baseProvider carries the HTTP plumbing shared by the remote endpoints.
// Every failure it produces is already a RemoteServiceError tagged with the
// owning service, so callers never wrap twice.
type baseProvider struct {
	client  *http.Client
	service string
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(service, baseURL, apiKey, model string) baseProvider {
	return baseProvider{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		service: service,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, b.fail(fmt.Errorf("marshal: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, b.fail(fmt.Errorf("create request: %w", err))
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, b.fail(err)
	}
	return resp, nil
}

func (b *baseProvider) fail(err error) error {
	return &core.RemoteServiceError{Service: b.service, Err: err}
}

func (b *baseProvider) failStatus(status int, err error) error {
	return &core.RemoteServiceError{Service: b.service, Status: status, Err: err}
}

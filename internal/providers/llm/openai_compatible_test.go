package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdondlinger/groqee/internal/core"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestChatParsesCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(completionBody("  hello there \n")))
	}))
	defer ts.Close()

	provider := NewGroq(ts.URL, "test-key", "test-model")
	reply, err := provider.Chat(context.Background(), []core.Message{
		{Role: core.RoleUser, Content: "hi"},
	}, core.ChatOptions{Temperature: 0.7, MaxTokens: 150})

	require.NoError(t, err)
	assert.Equal(t, "hello there", reply, "content is whitespace-trimmed")
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotPayload["model"])
	assert.InDelta(t, 0.7, gotPayload["temperature"].(float64), 0.001)
	assert.Nil(t, gotPayload["response_format"])
}

func TestChatJSONObjectMode(t *testing.T) {
	var gotPayload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(completionBody(`{"name": "Ada"}`)))
	}))
	defer ts.Close()

	provider := NewGroq(ts.URL, "test-key", "test-model")
	_, err := provider.Chat(context.Background(), nil, core.ChatOptions{JSONObject: true})
	require.NoError(t, err)

	rf, ok := gotPayload["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", rf["type"])
}

func TestChatNon2xxStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	provider := NewGroq(ts.URL, "test-key", "test-model")
	_, err := provider.Chat(context.Background(), nil, core.ChatOptions{})

	var rse *core.RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, "chat", rse.Service)
	assert.Equal(t, http.StatusTooManyRequests, rse.Status)
}

func TestChatTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	provider := NewGroq(ts.URL, "test-key", "test-model")
	_, err := provider.Chat(context.Background(), nil, core.ChatOptions{})

	var rse *core.RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, "chat", rse.Service)
	assert.Equal(t, 0, rse.Status)
}

func TestChatMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	provider := NewGroq(ts.URL, "test-key", "test-model")
	_, err := provider.Chat(context.Background(), nil, core.ChatOptions{})

	var rse *core.RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, "chat", rse.Service)
}

func TestChatEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	provider := NewGroq(ts.URL, "test-key", "test-model")
	_, err := provider.Chat(context.Background(), nil, core.ChatOptions{})

	var rse *core.RemoteServiceError
	require.ErrorAs(t, err, &rse)
}

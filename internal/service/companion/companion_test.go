package companion

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdondlinger/groqee/internal/conversation"
	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/internal/storage/sqlite"
)

type scriptedChat struct {
	replies []any // string or error
}

func (s *scriptedChat) Chat(_ context.Context, _ []core.Message, _ core.ChatOptions) (string, error) {
	if len(s.replies) == 0 {
		return "ok", nil
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func newTestCompanion(t *testing.T, chat core.ChatProvider) (*Companion, *sqlite.Transcript) {
	t.Helper()
	dir := t.TempDir()

	store := conversation.New(context.Background(), conversation.Config{
		PersonaName: conversation.DefaultPersonaName,
		CatalogPath: filepath.Join(dir, "personas.json"),
		MemoryPath:  filepath.Join(dir, "memory.json"),
		Credential:  "test-key",
		Now:         func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}, chat)

	db, err := sqlite.NewDB(context.Background(), filepath.Join(dir, "groqee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	transcript := sqlite.NewTranscript(db)
	return New(store, chat, transcript, filepath.Join(dir, "prompt_tuner.json")), transcript
}

func TestConverseArchivesExchange(t *testing.T) {
	ctx := context.Background()
	c, transcript := newTestCompanion(t, &scriptedChat{replies: []any{"hello!"}})

	reply, err := c.Converse(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello!", reply)
	assert.Equal(t, 1, c.InteractionCount())

	exchanges, err := transcript.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "hi", exchanges[0].UserText)
	assert.Equal(t, "hello!", exchanges[0].AssistantText)
	assert.Greater(t, exchanges[0].UserTokens, 0)
}

func TestConverseFailureIsNotArchived(t *testing.T) {
	ctx := context.Background()
	remoteErr := &core.RemoteServiceError{Service: "chat", Err: errors.New("down")}
	c, transcript := newTestCompanion(t, &scriptedChat{replies: []any{remoteErr}})

	reply, err := c.Converse(ctx, "hi")
	assert.Equal(t, conversation.FallbackReply, reply)
	require.Error(t, err)

	exchanges, err := transcript.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}

func TestAnalyzeRecordsEvent(t *testing.T) {
	ctx := context.Background()
	chat := &scriptedChat{replies: []any{"hello!", `{"name": "Ada"}`}}
	c, transcript := newTestCompanion(t, chat)

	_, err := c.Converse(ctx, "I'm Ada")
	require.NoError(t, err)

	merged, err := c.Analyze(ctx)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, "Ada", c.Profile().Name)

	count, err := transcript.CountEvents(ctx, "extraction")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEvolvePromptWritesProposal(t *testing.T) {
	ctx := context.Background()
	c, transcript := newTestCompanion(t, &scriptedChat{replies: []any{"You are an evolved Groqee."}})

	evolved, err := c.EvolvePrompt(ctx)
	require.NoError(t, err)
	assert.Equal(t, "You are an evolved Groqee.", evolved)

	data, err := os.ReadFile(c.tunerPath)
	require.NoError(t, err)
	var tuner promptTuner
	require.NoError(t, json.Unmarshal(data, &tuner))
	assert.Equal(t, c.Persona().Prompt, tuner.OriginalPrompt)
	assert.Equal(t, evolved, tuner.EvolvedPrompt)

	count, err := transcript.CountEvents(ctx, "evolution")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEvolvePromptRemoteFailure(t *testing.T) {
	remoteErr := &core.RemoteServiceError{Service: "chat", Err: errors.New("down")}
	c, _ := newTestCompanion(t, &scriptedChat{replies: []any{remoteErr}})

	_, err := c.EvolvePrompt(context.Background())
	var rse *core.RemoteServiceError
	assert.ErrorAs(t, err, &rse)
	_, serr := os.Stat(c.tunerPath)
	assert.True(t, os.IsNotExist(serr), "no proposal file on failure")
}

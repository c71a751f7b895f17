package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranscript(t *testing.T) *Transcript {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "groqee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTranscript(db)
}

func TestTranscriptRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr := newTestTranscript(t)

	require.NoError(t, tr.AddExchange(ctx, Exchange{UserText: "hi", AssistantText: "hello", UserTokens: 1, AssistantTokens: 2}))
	require.NoError(t, tr.AddExchange(ctx, Exchange{UserText: "how are you", AssistantText: "great", UserTokens: 3, AssistantTokens: 1}))

	exchanges, err := tr.RecentExchanges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	assert.Equal(t, "hi", exchanges[0].UserText)
	assert.Equal(t, "great", exchanges[1].AssistantText)
	assert.Equal(t, 3, exchanges[1].UserTokens)
}

func TestRecentExchangesLimitKeepsNewest(t *testing.T) {
	ctx := context.Background()
	tr := newTestTranscript(t)

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, tr.AddExchange(ctx, Exchange{UserText: text, AssistantText: "ok"}))
	}

	exchanges, err := tr.RecentExchanges(ctx, 2)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	assert.Equal(t, "two", exchanges[0].UserText)
	assert.Equal(t, "three", exchanges[1].UserText)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	tr := newTestTranscript(t)

	require.NoError(t, tr.AddEvent(ctx, "extraction", "merged"))
	require.NoError(t, tr.AddEvent(ctx, "extraction", "merged"))
	require.NoError(t, tr.AddEvent(ctx, "evolution", ""))

	count, err := tr.CountEvents(ctx, "extraction")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

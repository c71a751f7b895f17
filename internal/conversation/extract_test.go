package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdondlinger/groqee/internal/core"
)

func storeWithHistory(t *testing.T, chat *fakeChat) *Store {
	t.Helper()
	s := New(context.Background(), testConfig(t), chat)
	s.doc.ConversationHistory = append(s.doc.ConversationHistory,
		core.Turn{User: "hi, I'm Ada and I love chess"},
		core.Turn{Assistant: "Nice to meet you, Ada!"},
	)
	return s
}

func TestExtractAndMerge(t *testing.T) {
	chat := &fakeChat{replies: []any{
		`{"name": "Ada", "hobbies": ["chess"], "job": "engineer", "importantDates": {"birthday": "March 3"}, "keyInsights": ["values precision"]}`,
	}}
	s := storeWithHistory(t, chat)

	merged, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	assert.True(t, merged)

	p := s.Profile()
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, []string{"chess"}, p.Hobbies)
	assert.Equal(t, "engineer", p.Job)
	assert.Equal(t, "March 3", s.doc.ImportantDates["birthday"])
	assert.Equal(t, []string{"values precision"}, s.doc.KeyInsights)

	// Extraction requests are deterministic and ask for a JSON object.
	require.Len(t, chat.calls, 1)
	assert.InDelta(t, 0.1, chat.calls[0].opts.Temperature, 0.001)
	assert.True(t, chat.calls[0].opts.JSONObject)
}

func TestExtractAndMergeIdempotent(t *testing.T) {
	response := `{"name": "Ada", "hobbies": ["chess"], "keyInsights": ["curious"]}`
	chat := &fakeChat{replies: []any{response, response}}
	s := storeWithHistory(t, chat)

	for i := 0; i < 2; i++ {
		merged, err := s.ExtractAndMerge(context.Background())
		require.NoError(t, err)
		assert.True(t, merged)
	}

	assert.Equal(t, []string{"chess"}, s.Profile().Hobbies)
	assert.Equal(t, []string{"curious"}, s.doc.KeyInsights)
}

func TestExtractNameAndJobSetOnce(t *testing.T) {
	chat := &fakeChat{replies: []any{
		`{"name": "Ada", "job": "engineer"}`,
		`{"name": "Grace", "job": "admiral"}`,
	}}
	s := storeWithHistory(t, chat)

	_, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	_, err = s.ExtractAndMerge(context.Background())
	require.NoError(t, err)

	p := s.Profile()
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "engineer", p.Job)
}

func TestExtractImportantDatesLastWriteWins(t *testing.T) {
	chat := &fakeChat{replies: []any{
		`{"importantDates": {"anniversary": "June 1"}}`,
		`{"importantDates": {"anniversary": "June 2"}}`,
	}}
	s := storeWithHistory(t, chat)

	_, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	_, err = s.ExtractAndMerge(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "June 2", s.doc.ImportantDates["anniversary"])
}

func TestExtractFlexibleListAcceptsString(t *testing.T) {
	chat := &fakeChat{replies: []any{
		`{"hobbies": "chess", "likes": ["coffee"]}`,
	}}
	s := storeWithHistory(t, chat)

	merged, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, []string{"chess"}, s.Profile().Hobbies)
	assert.Equal(t, []string{"coffee"}, s.Profile().Likes)
}

func TestExtractToleratesSurroundingProse(t *testing.T) {
	chat := &fakeChat{replies: []any{
		"Here is the extracted information:\n```json\n{\"name\": \"Ada\"}\n```\nLet me know if you need more.",
	}}
	s := storeWithHistory(t, chat)

	merged, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, "Ada", s.Profile().Name)
}

func TestExtractMalformedResponse(t *testing.T) {
	chat := &fakeChat{replies: []any{"sorry, I cannot do that"}}
	s := storeWithHistory(t, chat)
	before := s.Profile()

	merged, err := s.ExtractAndMerge(context.Background())
	assert.False(t, merged)
	assert.ErrorIs(t, err, core.ErrMalformedExtraction)
	assert.Equal(t, before, s.Profile(), "failed extraction leaves the profile unchanged")
}

func TestExtractRemoteFailure(t *testing.T) {
	chat := &fakeChat{replies: []any{&core.RemoteServiceError{Service: "chat", Err: errors.New("boom")}}}
	s := storeWithHistory(t, chat)

	merged, err := s.ExtractAndMerge(context.Background())
	assert.False(t, merged)
	var rse *core.RemoteServiceError
	assert.ErrorAs(t, err, &rse)
}

func TestExtractSkipsWithoutCredentialOrHistory(t *testing.T) {
	chat := &fakeChat{}

	cfg := testConfig(t)
	cfg.Credential = ""
	s := New(context.Background(), cfg, chat)
	s.doc.ConversationHistory = append(s.doc.ConversationHistory, core.Turn{User: "hi"})
	merged, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	assert.False(t, merged)

	s = New(context.Background(), testConfig(t), chat)
	merged, err = s.ExtractAndMerge(context.Background())
	require.NoError(t, err)
	assert.False(t, merged)

	assert.Empty(t, chat.calls)
}

func TestExtractRefreshesSystemPrompt(t *testing.T) {
	chat := &fakeChat{replies: []any{`{"name": "Ada"}`}}
	s := storeWithHistory(t, chat)

	_, err := s.ExtractAndMerge(context.Background())
	require.NoError(t, err)

	window := s.ContextWindow()
	require.NotEmpty(t, window)
	assert.Contains(t, window[0].Content, "The user's name is Ada.")
}

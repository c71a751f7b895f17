// Package companion fronts the conversation store for every transport:
// Telegram, the terminal UI and the web server all talk to one Companion,
// which serializes access and handles the bookkeeping around each turn.
package companion

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/jdondlinger/groqee/internal/conversation"
	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/internal/storage/sqlite"
	"github.com/jdondlinger/groqee/pkg/log"
	"github.com/jdondlinger/groqee/pkg/tokens"
)

const evolveMaxTokens = 400

type Companion struct {
	mu         sync.Mutex
	store      *conversation.Store
	chat       core.ChatProvider
	transcript *sqlite.Transcript
	tunerPath  string
}

// New wires a companion over the store. transcript may be nil; archival is
// then skipped.
func New(store *conversation.Store, chat core.ChatProvider, transcript *sqlite.Transcript, tunerPath string) *Companion {
	return &Companion{
		store:      store,
		chat:       chat,
		transcript: transcript,
		tunerPath:  tunerPath,
	}
}

// Converse submits one user turn and returns the displayable reply. The reply
// string is always printable; err reports the underlying failure when the
// reply is a fallback.
func (c *Companion) Converse(ctx context.Context, userText string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userTokens := tokens.Estimate(userText)
	reply, err := c.store.Submit(ctx, userText)
	replyTokens := tokens.Estimate(reply)

	log.FromCtx(ctx).Debug().
		Int("user_tokens", userTokens).
		Int("reply_tokens", replyTokens).
		Bool("ok", err == nil).
		Msg("conversation turn")

	if err == nil && c.transcript != nil {
		// Archival is best effort; a failed insert never fails the turn.
		if aerr := c.transcript.AddExchange(ctx, sqlite.Exchange{
			UserText:        userText,
			AssistantText:   reply,
			UserTokens:      userTokens,
			AssistantTokens: replyTokens,
		}); aerr != nil {
			log.FromCtx(ctx).Warn().Err(aerr).Msg("failed to archive exchange")
		}
	}
	return reply, err
}

// Analyze runs one extraction pass over the recent history.
func (c *Companion) Analyze(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, err := c.store.ExtractAndMerge(ctx)
	if merged && c.transcript != nil {
		if aerr := c.transcript.AddEvent(ctx, "extraction", "profile merged"); aerr != nil {
			log.FromCtx(ctx).Warn().Err(aerr).Msg("failed to record extraction event")
		}
	}
	return merged, err
}

// promptTuner is the persisted result of a prompt evolution run. The evolved
// prompt is written for review, not applied; the active persona does not
// change mid-session.
type promptTuner struct {
	OriginalPrompt string `json:"originalPrompt"`
	EvolvedPrompt  string `json:"evolvedPrompt"`
}

// EvolvePrompt asks the chat endpoint to rewrite the persona prompt around
// what is known about the user, and writes the proposal next to the memory
// document.
func (c *Companion) EvolvePrompt(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	persona := c.store.Persona()
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "You are a prompt engineer. Rewrite the given persona prompt so it better fits what is known about the user, keeping the persona's voice. Reply with the rewritten prompt only."},
		{Role: core.RoleUser, Content: "PERSONA PROMPT:\n" + persona.Prompt + "\n\nUSER PROFILE:\n" + profileJSON(c.store.Profile())},
	}

	evolved, err := c.chat.Chat(ctx, messages, core.ChatOptions{
		Temperature: 0.7,
		MaxTokens:   evolveMaxTokens,
	})
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(promptTuner{
		OriginalPrompt: persona.Prompt,
		EvolvedPrompt:  evolved,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(c.tunerPath, data, 0644); err != nil {
		return "", &core.PersistenceError{Op: "write", Path: c.tunerPath, Err: err}
	}

	if c.transcript != nil {
		if aerr := c.transcript.AddEvent(ctx, "evolution", "prompt proposal written"); aerr != nil {
			log.FromCtx(ctx).Warn().Err(aerr).Msg("failed to record evolution event")
		}
	}
	return evolved, nil
}

// Persona returns the active persona.
func (c *Companion) Persona() core.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Persona()
}

// Profile returns a snapshot of the user profile.
func (c *Companion) Profile() core.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Profile()
}

// Emotions returns a snapshot of the emotional state.
func (c *Companion) Emotions() core.EmotionalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Emotions()
}

// InteractionCount returns the number of recorded user turns.
func (c *Companion) InteractionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.InteractionCount()
}

// History returns a copy of the conversation history.
func (c *Companion) History() []core.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.History()
}

func profileJSON(p core.UserProfile) string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

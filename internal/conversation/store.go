// Package conversation owns the companion's dialogue state: the selected
// persona, the persisted memory document, and the transient context window
// sent to the chat completion endpoint. A Store is single-writer; callers
// serialize Submit and ExtractAndMerge against one instance.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/pkg/log"
)

const (
	// Window trim bounds request payload; persisted history never shrinks.
	maxWindowMessages = 25
	trimKeepTail      = 14

	// System-prompt assembly limits.
	recentSnippetTurns = 5
	contextExchanges   = 6

	chatTemperature = 0.7
	chatMaxTokens   = 150 // short replies suit voice playback
)

// FallbackReply is returned whenever the chat completion call fails; the
// session degrades to an apology instead of crashing.
const FallbackReply = "I'm having trouble connecting to my voice service. Please try again in a moment."

// CredentialReply is returned when no API credential is configured.
const CredentialReply = "I need a Groq API key to continue our conversation. Please set GROQ_API_KEY or add one to groq_api_key.txt."

// Config carries everything a Store needs; no package-level state.
type Config struct {
	PersonaName string
	CatalogPath string
	MemoryPath  string
	Credential  string
	// Now overrides the clock in tests.
	Now func() time.Time
}

type Store struct {
	cfg     Config
	chat    core.ChatProvider
	persona core.Persona
	doc     *core.MemoryDocument
	window  []core.Message
	now     func() time.Time
}

// New loads the persona catalog and memory document (both fail-soft) and
// builds the initial context window.
func New(ctx context.Context, cfg Config, chat core.ChatProvider) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	catalog := loadCatalog(ctx, cfg.CatalogPath)

	s := &Store{
		cfg:     cfg,
		chat:    chat,
		persona: resolvePersona(ctx, catalog, cfg.PersonaName),
		doc:     loadDocument(ctx, cfg.MemoryPath),
		now:     now,
	}
	s.RebuildContext()
	return s
}

// RebuildContext rebuilds the context window from scratch: one system message
// followed by up to the last six exchanges of history. Idempotent; calling it
// twice without an intervening mutation yields an identical window.
func (s *Store) RebuildContext() {
	window := make([]core.Message, 0, 1+2*contextExchanges)
	window = append(window, core.Message{Role: core.RoleSystem, Content: s.buildSystemPrompt()})
	window = append(window, exchangeTail(s.doc.ConversationHistory, contextExchanges)...)
	s.window = window
}

// Submit records a user turn, asks the chat completion endpoint for a reply,
// and persists the document on success. The returned string is always safe to
// show the user; the error reports what went wrong, if anything. On a remote
// failure the state reflects only the user turn.
func (s *Store) Submit(ctx context.Context, userText string) (string, error) {
	if s.cfg.Credential == "" {
		return CredentialReply, core.ErrMissingCredential
	}

	ts := s.now().Format(time.RFC3339)
	s.doc.InteractionCount++
	s.doc.LastInteraction = ts
	s.doc.ConversationHistory = append(s.doc.ConversationHistory, core.Turn{User: userText, Timestamp: ts})
	s.window = append(s.window, core.Message{Role: core.RoleUser, Content: userText})

	reply, err := s.chat.Chat(ctx, s.window, core.ChatOptions{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err == nil && reply == "" {
		err = &core.RemoteServiceError{Service: "chat", Err: fmt.Errorf("empty completion")}
	}
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("chat completion failed")
		return FallbackReply, err
	}

	s.doc.ConversationHistory = append(s.doc.ConversationHistory, core.Turn{Assistant: reply, Timestamp: s.now().Format(time.RFC3339)})
	s.window = append(s.window, core.Message{Role: core.RoleAssistant, Content: reply})
	s.trimWindow()

	persistDocument(ctx, s.cfg.MemoryPath, s.doc)
	return reply, nil
}

// trimWindow caps the live window at maxWindowMessages by keeping the system
// message plus the last trimKeepTail messages. Window-only: persisted history
// is never truncated.
func (s *Store) trimWindow() {
	if len(s.window) <= maxWindowMessages {
		return
	}
	kept := make([]core.Message, 0, 1+trimKeepTail)
	kept = append(kept, s.window[0])
	kept = append(kept, s.window[len(s.window)-trimKeepTail:]...)
	s.window = kept
}

// DecayEmotions is the time-decay hook for the emotional state. No decay
// curve is defined yet; values hold steady.
func (s *Store) DecayEmotions(now time.Time) {}

// Persona returns the resolved persona.
func (s *Store) Persona() core.Persona { return s.persona }

// Profile returns a snapshot of the user profile.
func (s *Store) Profile() core.UserProfile { return s.doc.UserProfile }

// Emotions returns a snapshot of the emotional state.
func (s *Store) Emotions() core.EmotionalState { return s.doc.EmotionalState }

// InteractionCount returns the number of recorded user turns.
func (s *Store) InteractionCount() int { return s.doc.InteractionCount }

// History returns a copy of the conversation history.
func (s *Store) History() []core.Turn {
	out := make([]core.Turn, len(s.doc.ConversationHistory))
	copy(out, s.doc.ConversationHistory)
	return out
}

// ContextWindow returns a copy of the live context window.
func (s *Store) ContextWindow() []core.Message {
	out := make([]core.Message, len(s.window))
	copy(out, s.window)
	return out
}

func (s *Store) buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(s.persona.Prompt)
	b.WriteString("\n\nADDITIONAL CONTEXT:\n")
	b.WriteString("USER PROFILE SUMMARY: ")
	b.WriteString(profileSummary(s.doc.UserProfile))
	b.WriteString("\nRECENT CONVERSATION SNIPPET:\n")
	b.WriteString(renderTranscript(tailTurns(s.doc.ConversationHistory, recentSnippetTurns)))
	b.WriteString("CURRENT DATE: ")
	b.WriteString(s.now().Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "\nINTERACTION COUNT: %d\n", s.doc.InteractionCount)
	return b.String()
}

// profileSummary renders the established profile fields as one sentence per
// field, in fixed order. An unestablished profile gets the literal fallback.
func profileSummary(p core.UserProfile) string {
	var parts []string
	if p.Name != "" {
		parts = append(parts, fmt.Sprintf("The user's name is %s.", p.Name))
	}
	if len(p.Hobbies) > 0 {
		parts = append(parts, fmt.Sprintf("They enjoy %s.", strings.Join(p.Hobbies, ", ")))
	}
	if len(p.Goals) > 0 {
		parts = append(parts, fmt.Sprintf("Their goals include: %s.", strings.Join(p.Goals, ", ")))
	}
	if len(p.Challenges) > 0 {
		challenges := p.Challenges
		if len(challenges) > 2 {
			challenges = challenges[:2]
		}
		parts = append(parts, fmt.Sprintf("They've mentioned challenges with %s.", strings.Join(challenges, ", ")))
	}
	if p.Job != "" {
		parts = append(parts, fmt.Sprintf("They work as %s.", p.Job))
	}
	if len(parts) == 0 {
		return "User profile not yet established."
	}
	return strings.Join(parts, " ")
}

// renderTranscript renders turns as "User: …" / "Echo: …" lines in
// chronological order, omitting a side the turn lacks.
func renderTranscript(turns []core.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		if t.User != "" {
			b.WriteString("User: ")
			b.WriteString(t.User)
			b.WriteByte('\n')
		}
		if t.Assistant != "" {
			b.WriteString("Echo: ")
			b.WriteString(t.Assistant)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func tailTurns(turns []core.Turn, n int) []core.Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// exchangeTail maps the last maxExchanges exchanges of history to role-tagged
// messages. An exchange starts at a user turn; a dangling user turn with no
// assistant reply still counts as one.
func exchangeTail(history []core.Turn, maxExchanges int) []core.Message {
	start := 0
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsUser() {
			count++
			if count == maxExchanges {
				start = i
				break
			}
		}
	}

	msgs := make([]core.Message, 0, 2*maxExchanges)
	for _, t := range history[start:] {
		if t.User != "" {
			msgs = append(msgs, core.Message{Role: core.RoleUser, Content: t.User})
		}
		if t.Assistant != "" {
			msgs = append(msgs, core.Message{Role: core.RoleAssistant, Content: t.Assistant})
		}
	}
	return msgs
}

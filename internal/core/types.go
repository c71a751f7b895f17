package core

const (
	AppName       = "Groqee"
	AppUserAgent  = "Groqee/0.1"
	RepositoryURL = "https://github.com/jdondlinger/groqee"
	Version       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry of the context window sent to the
// chat completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Persona is one entry of the persona catalog. Immutable for the process
// lifetime once resolved.
type Persona struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// Turn is one side of an exchange: either a user or an assistant utterance.
// A user turn with no following assistant turn is valid (the completion call
// failed) and every reader tolerates it.
type Turn struct {
	User      string `json:"user,omitempty"`
	Assistant string `json:"assistant,omitempty"`
	Timestamp string `json:"timestamp"`
}

// IsUser reports whether the turn carries the user side.
func (t Turn) IsUser() bool { return t.User != "" }

// UserProfile accumulates facts learned about the user across sessions.
// Name and Job are set-once; the list fields keep insertion order and
// never hold duplicates.
type UserProfile struct {
	Name       string   `json:"name"`
	Hobbies    []string `json:"hobbies"`
	Likes      []string `json:"likes"`
	Dislikes   []string `json:"dislikes"`
	Goals      []string `json:"goals"`
	Challenges []string `json:"challenges"`
	Job        string   `json:"job"`
	Family     []string `json:"family"`
}

// IsEmpty reports whether no profile field has been populated yet.
func (p UserProfile) IsEmpty() bool {
	return p.Name == "" && p.Job == "" &&
		len(p.Hobbies) == 0 && len(p.Likes) == 0 && len(p.Dislikes) == 0 &&
		len(p.Goals) == 0 && len(p.Challenges) == 0 && len(p.Family) == 0
}

// EmotionalState is carried for forward compatibility; values are nominally
// in [0,100] and only the explicit decay hook may mutate them.
type EmotionalState struct {
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
}

// MemoryDocument is the persisted root: one document per installation,
// loaded once at startup and rewritten in full after every mutation.
type MemoryDocument struct {
	UserProfile         UserProfile       `json:"userProfile"`
	ConversationHistory []Turn            `json:"conversationHistory"`
	EmotionalState      EmotionalState    `json:"emotionalState"`
	InteractionCount    int               `json:"interactionCount"`
	LastInteraction     string            `json:"lastInteractionTimestamp"`
	ImportantDates      map[string]string `json:"importantDates"`
	KeyInsights         []string          `json:"keyInsights"`
}

// NewMemoryDocument returns a document with default-constructed fields.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{
		ConversationHistory: []Turn{},
		EmotionalState:      EmotionalState{Happiness: 50.0, Energy: 50.0},
		ImportantDates:      map[string]string{},
		KeyInsights:         []string{},
	}
}

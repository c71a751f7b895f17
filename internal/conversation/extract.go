package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/pkg/log"
)

const (
	// extractionTailTurns is how much recent history one extraction pass reads.
	extractionTailTurns = 20
	extractTemperature  = 0.1
)

const extractionSystemPrompt = `You are an AI assistant tasked with extracting user information from conversation history.
Extract the following information if present:
- User's name
- Hobbies and interests
- Likes and dislikes
- Goals and aspirations
- Challenges or problems
- Job or profession
- Family details
- Important dates (birthdays, anniversaries)
- Key insights about the user's personality

Format your response as a single JSON object with the fields "name", "hobbies", "likes", "dislikes", "goals", "challenges", "job", "family", "importantDates" and "keyInsights". Only include information that is explicitly mentioned. Do not invent or assume information. If a field has no information, leave it as an empty list or string.`

// flexibleList accepts either a JSON string or an array of strings; models
// are not reliable about which they emit for single-item fields.
type flexibleList []string

func (f *flexibleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*f = flexibleList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = flexibleList(many)
	return nil
}

// extractedProfile is the shape of the extraction service's response content.
type extractedProfile struct {
	Name           string            `json:"name"`
	Hobbies        flexibleList      `json:"hobbies"`
	Likes          flexibleList      `json:"likes"`
	Dislikes       flexibleList      `json:"dislikes"`
	Goals          flexibleList      `json:"goals"`
	Challenges     flexibleList      `json:"challenges"`
	Job            string            `json:"job"`
	Family         flexibleList      `json:"family"`
	ImportantDates map[string]string `json:"importantDates"`
	KeyInsights    flexibleList      `json:"keyInsights"`
}

// ExtractAndMerge sends the recent conversation tail to the extraction
// service and merges the returned facts into the profile. No-ops when no
// credential is configured or history is empty. Fails soft: on any request or
// parse failure the document is left unchanged and false is returned with the
// reason.
func (s *Store) ExtractAndMerge(ctx context.Context) (bool, error) {
	if s.cfg.Credential == "" || len(s.doc.ConversationHistory) == 0 {
		return false, nil
	}

	transcript := renderTranscript(tailTurns(s.doc.ConversationHistory, extractionTailTurns))
	messages := []core.Message{
		{Role: core.RoleSystem, Content: extractionSystemPrompt},
		{Role: core.RoleUser, Content: "Analyze this conversation and extract user information:\n\n" + transcript},
	}

	content, err := s.chat.Chat(ctx, messages, core.ChatOptions{
		Temperature: extractTemperature,
		JSONObject:  true,
	})
	if err != nil {
		return false, err
	}

	extracted, err := parseExtraction(content)
	if err != nil {
		return false, err
	}

	s.merge(extracted)
	s.RebuildContext()
	persistDocument(ctx, s.cfg.MemoryPath, s.doc)

	log.FromCtx(ctx).Debug().Msg("extraction merged into user profile")
	return true, nil
}

// parseExtraction locates the JSON object in the completion content and
// decodes it. Anything that does not decode as the expected shape is a
// malformed extraction.
func parseExtraction(content string) (*extractedProfile, error) {
	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: no JSON object found", core.ErrMalformedExtraction)
	}

	var extracted extractedProfile
	if err := json.Unmarshal([]byte(jsonStr), &extracted); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedExtraction, err)
	}
	return &extracted, nil
}

func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content[start:], "}")
	if end == -1 {
		return ""
	}
	return content[start : start+end+1]
}

// merge applies the extraction rules, each idempotent under repeated
// application of the same fact: name and job are set-once, list fields are
// set-semantics appends, important dates are last-write-wins, key insights
// are deduplicated appends.
func (s *Store) merge(ex *extractedProfile) {
	p := &s.doc.UserProfile

	if p.Name == "" && ex.Name != "" {
		p.Name = ex.Name
	}
	if p.Job == "" && ex.Job != "" {
		p.Job = ex.Job
	}

	p.Hobbies = appendMissing(p.Hobbies, ex.Hobbies)
	p.Likes = appendMissing(p.Likes, ex.Likes)
	p.Dislikes = appendMissing(p.Dislikes, ex.Dislikes)
	p.Goals = appendMissing(p.Goals, ex.Goals)
	p.Challenges = appendMissing(p.Challenges, ex.Challenges)
	p.Family = appendMissing(p.Family, ex.Family)

	for event, date := range ex.ImportantDates {
		if event == "" || date == "" {
			continue
		}
		s.doc.ImportantDates[event] = date
	}

	s.doc.KeyInsights = appendMissing(s.doc.KeyInsights, ex.KeyInsights)
}

func appendMissing(dst []string, items []string) []string {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || contains(dst, item) {
			continue
		}
		dst = append(dst, item)
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

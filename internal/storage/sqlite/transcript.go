package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jdondlinger/groqee/pkg/log"
)

// Exchange is one archived user/assistant round trip.
type Exchange struct {
	ID              int64  `json:"id"`
	UserText        string `json:"userText"`
	AssistantText   string `json:"assistantText"`
	UserTokens      int    `json:"userTokens"`
	AssistantTokens int    `json:"assistantTokens"`
	CreatedAt       string `json:"createdAt"`
}

// Transcript archives completed exchanges. The archive is append-only and
// advisory: the memory document stays the source of truth for conversation
// state, this table exists for inspection and token accounting.
type Transcript struct {
	db *sql.DB
}

func NewTranscript(db *sql.DB) *Transcript {
	return &Transcript{db: db}
}

func (t *Transcript) AddExchange(ctx context.Context, ex Exchange) error {
	query := `INSERT INTO exchanges (user_text, assistant_text, user_tokens, assistant_tokens) VALUES (?, ?, ?, ?)`
	_, err := t.db.ExecContext(ctx, query, ex.UserText, ex.AssistantText, ex.UserTokens, ex.AssistantTokens)
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

func (t *Transcript) RecentExchanges(ctx context.Context, limit int) ([]Exchange, error) {
	// Fetch the LAST 'limit' exchanges by ordering DESC
	query := `SELECT id, user_text, assistant_text, user_tokens, assistant_tokens, created_at
		FROM exchanges ORDER BY id DESC LIMIT ?`

	rows, err := t.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var ex Exchange
		if err := rows.Scan(&ex.ID, &ex.UserText, &ex.AssistantText, &ex.UserTokens, &ex.AssistantTokens, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse back to chronological order.
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(exchanges)).Msg("loaded archived exchanges")
	return exchanges, nil
}

// AddEvent records an operational event (extraction run, prompt evolution).
func (t *Transcript) AddEvent(ctx context.Context, kind, detail string) error {
	query := `INSERT INTO events (kind, detail) VALUES (?, ?)`
	if _, err := t.db.ExecContext(ctx, query, kind, detail); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// CountEvents returns how many events of one kind were recorded.
func (t *Transcript) CountEvents(ctx context.Context, kind string) (int, error) {
	var count int
	err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE kind = ?`, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

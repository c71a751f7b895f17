package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/pkg/log"
)

// loadDocument reads the memory document, creating it with defaults when the
// file is absent and falling back to in-memory defaults when it is corrupt.
// Never fatal: a broken file costs history, not the session.
func loadDocument(ctx context.Context, path string) *core.MemoryDocument {
	logger := log.FromCtx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			doc := core.NewMemoryDocument()
			if werr := saveDocument(path, doc); werr != nil {
				logger.Warn().Err(werr).Msg("failed to create memory document")
			}
			return doc
		}
		logger.Warn().Err(err).Str("path", path).Msg("failed to read memory document, starting with defaults")
		return core.NewMemoryDocument()
	}

	doc := core.NewMemoryDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("memory document is malformed, starting with defaults")
		return core.NewMemoryDocument()
	}

	// json.Unmarshal leaves absent collections nil; readers expect them.
	if doc.ConversationHistory == nil {
		doc.ConversationHistory = []core.Turn{}
	}
	if doc.ImportantDates == nil {
		doc.ImportantDates = map[string]string{}
	}
	if doc.KeyInsights == nil {
		doc.KeyInsights = []string{}
	}
	return doc
}

// saveDocument rewrites the whole document. There is no partial write: the
// file is the sole durable copy and always holds a complete snapshot.
func saveDocument(path string, doc *core.MemoryDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &core.PersistenceError{Op: "write", Path: path, Err: err}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &core.PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &core.PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func persistDocument(ctx context.Context, path string, doc *core.MemoryDocument) {
	if err := saveDocument(path, doc); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to persist memory document")
	}
}

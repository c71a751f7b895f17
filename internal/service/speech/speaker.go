// Package speech turns replies into audio files. Synthesized clips land in
// the runtime audio directory; only the newest few are kept so the directory
// never grows unbounded.
package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/pkg/log"
)

const (
	filePrefix = "groqee_speech_"
	keepFiles  = 5
)

type Speaker struct {
	provider core.SpeechProvider
	audioDir string
	now      func() time.Time
}

func NewSpeaker(provider core.SpeechProvider, audioDir string) *Speaker {
	return &Speaker{
		provider: provider,
		audioDir: audioDir,
		now:      time.Now,
	}
}

// Speak synthesizes text and writes it as a timestamped WAV file, returning
// the file path. Older clips beyond the retention count are removed.
func (s *Speaker) Speak(ctx context.Context, text string) (string, error) {
	audio, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return "", &core.PersistenceError{Op: "write", Path: s.audioDir, Err: err}
	}

	path := filepath.Join(s.audioDir, fmt.Sprintf("%s%d.wav", filePrefix, s.now().UnixNano()))
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return "", &core.PersistenceError{Op: "write", Path: path, Err: err}
	}

	s.prune(ctx)
	return path, nil
}

// prune deletes the oldest clips once more than keepFiles exist. Best effort;
// a failed delete only costs disk space.
func (s *Speaker) prune(ctx context.Context) {
	entries, err := os.ReadDir(s.audioDir)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to scan audio directory")
		return
	}

	var clips []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) {
			clips = append(clips, e.Name())
		}
	}
	if len(clips) <= keepFiles {
		return
	}

	// Timestamped names sort chronologically.
	sort.Strings(clips)
	for _, name := range clips[:len(clips)-keepFiles] {
		if err := os.Remove(filepath.Join(s.audioDir, name)); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("file", name).Msg("failed to remove old clip")
		}
	}
}

package companion

import (
	"context"
	"time"

	"github.com/jdondlinger/groqee/pkg/log"
)

const defaultAnalysisInterval = 5 * time.Minute

// Analyzer periodically runs profile extraction in the background so facts
// accumulate even during long sessions.
type Analyzer struct {
	companion *Companion
	Interval  time.Duration
}

// NewAnalyzer builds the background analyzer. Non-positive intervals fall
// back to the default; time.NewTicker panics on them.
func NewAnalyzer(companion *Companion, interval time.Duration) *Analyzer {
	if interval <= 0 {
		interval = defaultAnalysisInterval
	}
	return &Analyzer{
		companion: companion,
		Interval:  interval,
	}
}

func (a *Analyzer) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Dur("interval", a.Interval).Msg("starting memory analyzer")

	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			merged, err := a.companion.Analyze(ctx)
			if err != nil {
				// Extraction is fail-soft: log and wait for the next tick.
				logger.Warn().Err(err).Msg("memory analysis failed")
				continue
			}
			if merged {
				logger.Info().Msg("user profile updated from conversation")
			}
		}
	}
}

func (a *Analyzer) Shutdown(ctx context.Context) error {
	return nil
}

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

const maxBackoff = 30 * time.Second

type persister interface {
	Persist() error
}

// runAutosave persists the history every interval until ctx is done. After a
// failed save the next attempt backs off exponentially, capped at maxBackoff.
func runAutosave(ctx context.Context, p persister, interval time.Duration, logger *log.Logger) {
	failures := 0
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := p.Persist(); err != nil {
			failures++
			next := calculateBackoff(failures, interval)
			logger.Warn("autosave failed", "err", err, "retry_in", next)
			timer.Reset(next)
			continue
		}
		failures = 0
		timer.Reset(interval)
	}
}

// calculateBackoff doubles base once per consecutive failure.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

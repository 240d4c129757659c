package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Janitor periodically sweeps expired sessions out of a registry. Lookups
// already evict lazily; the janitor only bounds memory held by tokens that
// are never presented again.
type Janitor struct {
	sessions *SessionRegistry
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJanitor returns nil when interval is not positive. All methods are safe
// on a nil Janitor.
func NewJanitor(sessions *SessionRegistry, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{sessions: sessions, interval: interval, logger: logger}
}

// Start begins the sweep loop. Non-blocking.
func (j *Janitor) Start() {
	if j == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := j.sessions.Sweep(); n > 0 {
					j.logger.Debug("expired sessions swept", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the loop and waits for it to exit.
func (j *Janitor) Shutdown() {
	if j == nil {
		return
	}
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}

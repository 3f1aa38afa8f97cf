package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ChannelWorker is a periodic background job that re-analyzes a fixed list of
// channel names so their cache entries stay warm.
type ChannelWorker struct {
	svc      *ChannelService
	names    []string
	interval time.Duration
	stopCh   chan struct{}
}

// NewChannelWorker creates a worker that refreshes names every interval.
func NewChannelWorker(svc *ChannelService, names []string, interval time.Duration) *ChannelWorker {
	return &ChannelWorker{
		svc:      svc,
		names:    names,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic refresh loop.
// It runs one tick immediately, then every interval.
func (w *ChannelWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Int("channels", len(w.names)).Msg("channel-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("channel-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("channel-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *ChannelWorker) Stop() {
	close(w.stopCh)
}

// tick refreshes every configured channel once.
func (w *ChannelWorker) tick(ctx context.Context) (refreshed, failed int) {
	start := time.Now()

	for _, name := range w.names {
		if ctx.Err() != nil {
			return refreshed, failed
		}
		if _, err := w.svc.Refresh(ctx, name); err != nil {
			log.Warn().Err(err).Str("channel_name", name).Msg("channel-worker: refresh failed")
			failed++
			continue
		}
		refreshed++
	}

	log.Info().
		Int("refreshed", refreshed).
		Int("failed", failed).
		Dur("duration_ms", time.Since(start)).
		Msg("channel-worker: tick complete")
	return refreshed, failed
}

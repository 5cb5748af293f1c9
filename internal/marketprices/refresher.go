package marketprices

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresher proactively refreshes the price feed on a fixed interval,
// independent of inbound reads. It shares FetchLatestFromFeed with the
// cache-miss path, so overlapping runs collapse to one upstream call.
type Refresher struct {
	Service  *Service
	Interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the periodic refresh until Stop or parent cancellation.
func (r *Refresher) Start(parent context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Msg("Starting scheduled price updates")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Scheduled price updates stopped")
				return
			case <-ticker.C:
				if _, err := r.Service.FetchLatestFromFeed(ctx); err != nil {
					log.Error().Err(err).Msg("Scheduled price update failed")
					continue
				}
				log.Info().Msg("Scheduled price update completed")
			}
		}
	}()
}

// Stop cancels the refresh loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

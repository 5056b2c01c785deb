package worker

// expiry_cron.go
// Background goroutine that periodically sweeps stock items for expired or
// soon-to-expire stock and raises alerts. Nobody has to hit an endpoint for
// expiry alerts to fire.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiryScanner raises expired / expiring_soon alerts for items whose expiry
// date falls inside the window. Implemented by the inventory service.
type ExpiryScanner interface {
	ScanExpiry(ctx context.Context, window time.Duration) (int, error)
}

// StartExpiryCron launches a goroutine that runs one sweep immediately and
// then one per interval until the context is cancelled.
func StartExpiryCron(ctx context.Context, scanner ExpiryScanner, interval, window time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("expiry_cron: started")
		runExpirySweep(ctx, scanner, window)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiry_cron: shutting down")
				return
			case <-ticker.C:
				runExpirySweep(ctx, scanner, window)
			}
		}
	}()
}

func runExpirySweep(ctx context.Context, scanner ExpiryScanner, window time.Duration) {
	raised, err := scanner.ScanExpiry(ctx, window)
	if err != nil {
		log.Error().Err(err).Msg("expiry_cron: sweep failed")
		return
	}
	if raised > 0 {
		log.Info().Int("raised", raised).Msg("expiry_cron: alerts raised")
	}
}

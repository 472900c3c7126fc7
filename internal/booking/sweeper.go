package booking

import (
	"context"
	"log/slog"
	"time"
)

// Expirer is the part of the ledger the sweeper drives.
type Expirer interface {
	ExpireSweep(ctx context.Context) (int, error)
}

// Sweeper periodically removes expired bookings.
type Sweeper struct {
	ledger   Expirer
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(ledger Expirer, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{ledger: ledger, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("expiry sweeper started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.ledger.ExpireSweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("expiry sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		s.logger.Debug("expiry sweep removed bookings", "count", n)
	}
}

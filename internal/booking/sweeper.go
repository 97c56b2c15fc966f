package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically completes confirmed bookings whose end time has passed.
type Sweeper struct {
	svc      Service
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewSweeper(svc Service, interval time.Duration, log *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		svc:      svc,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.svc.CompleteDue(ctx, s.now())
	if err != nil {
		s.log.Error("completion sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("bookings completed", zap.Int("count", n))
	}
}

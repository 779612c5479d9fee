package retention

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webinara/webinara-backend/internal/repository"
)

// Sweeper removes webinars whose date has passed, and hosts left without any
// webinar afterwards. Bookings keep their embedded snapshot, so user history
// survives the sweep.
type Sweeper struct {
	webinars repository.WebinarRepository
	hosts    repository.HostRepository
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewSweeper(webinars repository.WebinarRepository, hosts repository.HostRepository, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		webinars: webinars,
		hosts:    hosts,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps once immediately, then on every tick until the context ends.
func (s *Sweeper) Run(ctx context.Context) error {
	if _, err := s.SweepOnce(ctx); err != nil {
		s.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce deletes every past webinar and reports how many rows went.
// Webinar deletions fan out concurrently; orphaned hosts go afterwards.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now().UTC()
	past, err := s.webinars.ListPast(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(past) == 0 {
		return 0, nil
	}

	hostIDs := make(map[uint]struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, w := range past {
		hostIDs[w.HostID] = struct{}{}
		g.Go(func() error {
			return s.webinars.Delete(gctx, w.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	remaining, err := s.webinars.List(ctx)
	if err != nil {
		return len(past), err
	}
	for _, w := range remaining {
		delete(hostIDs, w.HostID)
	}
	for id := range hostIDs {
		if err := s.hosts.Delete(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "orphaned host delete failed", "host_id", id, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "retention sweep complete",
		"webinars_deleted", len(past),
		"hosts_deleted", len(hostIDs),
	)
	return len(past), nil
}

// WithClock overrides the time source for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

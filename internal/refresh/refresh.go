// Package refresh keeps an in-memory snapshot of ECHO systems and violations,
// refreshed on a fixed interval and on demand.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/echo"
	"github.com/couchcryptid/pws-advisor-service/internal/domain"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

// Fetcher retrieves one systems and violations cycle.
type Fetcher interface {
	Fetch(ctx context.Context, f echo.Filter) (echo.Result, error)
}

// FilterFunc resolves the filter for the next fetch. It is called on every
// refresh so saved settings take effect without a restart.
type FilterFunc func(ctx context.Context) echo.Filter

// Snapshot is the data currently on display. A failed refresh keeps the
// previous records and only sets LastError.
type Snapshot struct {
	Systems    []domain.SystemRecord `json:"systems"`
	Violations []domain.Violation    `json:"violations"`
	FetchedAt  *time.Time            `json:"fetched_at"`
	LastError  string                `json:"last_error,omitempty"`
}

// Refresher owns the snapshot and the polling loop.
type Refresher struct {
	fetcher  Fetcher
	filter   FilterFunc
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu    sync.Mutex // serializes snapshot writes
	snap  atomic.Pointer[Snapshot]
	ready atomic.Bool
}

// New creates a Refresher. An interval of zero disables polling; Refresh
// still works on demand.
func New(f Fetcher, filter FilterFunc, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	r := &Refresher{
		fetcher:  f,
		filter:   filter,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
	r.snap.Store(&Snapshot{Systems: []domain.SystemRecord{}, Violations: []domain.Violation{}})
	return r
}

// StaticFilter returns a FilterFunc that always yields f.
func StaticFilter(f echo.Filter) FilterFunc {
	return func(context.Context) echo.Filter { return f }
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (r *Refresher) Snapshot() Snapshot {
	return *r.snap.Load()
}

// CheckReadiness returns nil once at least one refresh has succeeded.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no successful ECHO refresh yet")
	}
	return nil
}

// Refresh fetches now and publishes the outcome. Concurrent calls are not
// coalesced; whichever response arrives last is what the snapshot shows.
func (r *Refresher) Refresh(ctx context.Context) (Snapshot, error) {
	filter := r.filter(ctx)
	res, err := r.fetcher.Fetch(ctx, filter)
	if err != nil && ctx.Err() != nil {
		// Abandoned by the caller; leave the snapshot alone.
		return r.Snapshot(), err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.logger.Error("echo refresh failed", "error", err, "state", filter.State, "county", filter.County, "pwsid", filter.PWSID)
		next := *r.snap.Load()
		next.LastError = err.Error()
		r.snap.Store(&next)
		return next, err
	}

	now := r.clock.Now().UTC()
	next := Snapshot{
		Systems:    nonNil(res.Systems),
		Violations: nonNil(res.Violations),
		FetchedAt:  &now,
	}
	r.snap.Store(&next)
	r.ready.Store(true)

	r.metrics.LastRefresh.Set(float64(now.Unix()))
	r.metrics.SnapshotRecords.WithLabelValues("systems").Set(float64(len(next.Systems)))
	r.metrics.SnapshotRecords.WithLabelValues("violations").Set(float64(len(next.Violations)))
	r.logger.Info("echo refresh complete", "systems", len(next.Systems), "violations", len(next.Violations))
	return next, nil
}

// Run refreshes once immediately and then on every tick until ctx is
// cancelled. Fetch failures never stop the loop.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefreshRunning.Set(1)
	defer r.metrics.RefreshRunning.Set(0)

	r.Refresh(ctx) //nolint:errcheck // recorded in the snapshot

	if r.interval <= 0 {
		<-ctx.Done()
		r.logger.Info("refresher stopping", "reason", ctx.Err())
		return nil
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.Refresh(ctx) //nolint:errcheck // recorded in the snapshot
		}
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

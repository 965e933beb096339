package service

import (
	"context"
	"log/slog"
	"time"

	"GO2GETHER_EXPENSES/internal/membership"
	"GO2GETHER_EXPENSES/internal/store"
)

// StatusSweeper applies the time-driven trip status transitions
// (inProgress, completed) as a periodic batch pass. The pass is idempotent
// and safe to run concurrently with expense and booking operations.
type StatusSweeper struct {
	store store.Store
	now   func() time.Time
}

// NewStatusSweeper creates a sweeper over the given store.
func NewStatusSweeper(st store.Store) *StatusSweeper {
	return &StatusSweeper{store: st, now: time.Now}
}

// Sweep runs one pass over all unfinished trips.
func (s *StatusSweeper) Sweep(ctx context.Context) error {
	trips, err := s.store.ListUnfinishedTrips(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	updated := 0
	for i := range trips {
		trip := &trips[i]
		if !membership.ApplyTimeStatus(trip, now) {
			continue
		}
		// Guarded write: a trip cancelled between the list and this point
		// stays cancelled, the sweep's transition is simply skipped.
		ok, err := s.store.AdvanceTripStatus(ctx, trip.ID, trip.Status)
		if err != nil {
			slog.Error("status sweep update failed", "trip_id", trip.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		updated++
	}
	if updated > 0 {
		slog.Info("trip statuses updated", "checked", len(trips), "updated", updated)
	}
	return nil
}

// Run sweeps on the given interval until the context is cancelled.
func (s *StatusSweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				slog.Error("trip status sweep failed", "error", err)
			}
		}
	}
}

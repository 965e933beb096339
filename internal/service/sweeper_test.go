package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/models"
	"GO2GETHER_EXPENSES/internal/store"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Now()

	upcoming := seedTrip(st, userB)

	running := seedTrip(st, userB)
	running.StartDate = now.Add(-time.Hour)
	running.EndDate = now.Add(time.Hour)
	st.PutTrip(running)

	over := seedTrip(st, userB)
	over.StartDate = now.Add(-72 * time.Hour)
	over.EndDate = now.Add(-24 * time.Hour)
	st.PutTrip(over)

	cancelled := seedTrip(st, userB)
	cancelled.StartDate = now.Add(-72 * time.Hour)
	cancelled.EndDate = now.Add(-24 * time.Hour)
	cancelled.Status = models.TripCancelled
	st.PutTrip(cancelled)

	sweeper := NewStatusSweeper(st)
	sweeper.now = func() time.Time { return now }

	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	tests := []struct {
		name string
		trip *models.Trip
		want models.TripStatus
	}{
		{"upcoming stays confirmed", upcoming, models.TripConfirmed},
		{"in-window becomes inProgress", running, models.TripInProgress},
		{"past becomes completed", over, models.TripCompleted},
		{"cancelled stays cancelled", cancelled, models.TripCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.GetTrip(ctx, tt.trip.ID)
			if err != nil {
				t.Fatalf("GetTrip() error = %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("status = %s, want %s", got.Status, tt.want)
			}
		})
	}

	// A second pass finds nothing left to change.
	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("second Sweep() error = %v", err)
	}
}

// cancelAfterListStore cancels one trip right after the sweep takes its
// snapshot, simulating an organizer cancellation racing the sweep.
type cancelAfterListStore struct {
	store.Store
	tripID uuid.UUID
	once   bool
}

func (s *cancelAfterListStore) ListUnfinishedTrips(ctx context.Context) ([]models.Trip, error) {
	trips, err := s.Store.ListUnfinishedTrips(ctx)
	if err == nil && !s.once {
		s.once = true
		if uerr := s.Store.UpdateTripStatus(ctx, s.tripID, models.TripCancelled); uerr != nil {
			return nil, uerr
		}
	}
	return trips, err
}

func TestSweepKeepsConcurrentCancellation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	now := time.Now()

	trip := seedTrip(mem, userB)
	trip.StartDate = now.Add(-72 * time.Hour)
	trip.EndDate = now.Add(-24 * time.Hour)
	mem.PutTrip(trip)

	st := &cancelAfterListStore{Store: mem, tripID: trip.ID}
	sweeper := NewStatusSweeper(st)
	sweeper.now = func() time.Time { return now }

	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	got, err := mem.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip() error = %v", err)
	}
	if got.Status != models.TripCancelled {
		t.Errorf("status = %s, want cancelled kept through the sweep", got.Status)
	}
}

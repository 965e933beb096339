package membership

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/models"
)

func newTrip(min, max int) *models.Trip {
	return &models.Trip{
		ID:              uuid.New(),
		OrganizerID:     uuid.New(),
		MinParticipants: min,
		MaxParticipants: max,
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(72 * time.Hour),
		Status:          models.TripOpen,
	}
}

func TestAddIsIdempotent(t *testing.T) {
	trip := newTrip(2, 4)
	user := uuid.New()

	if !Add(trip, user) {
		t.Fatal("first Add() = false, want true")
	}
	if Add(trip, user) {
		t.Error("second Add() = true, want false")
	}
	if trip.CurrentParticipants != 1 {
		t.Errorf("CurrentParticipants = %d, want 1", trip.CurrentParticipants)
	}
	if len(trip.Participants) != 1 {
		t.Errorf("len(Participants) = %d, want 1", len(trip.Participants))
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	trip := newTrip(2, 4)
	user := uuid.New()
	Add(trip, user)

	if !Remove(trip, user) {
		t.Fatal("Remove() = false, want true")
	}
	if Remove(trip, user) {
		t.Error("second Remove() = true, want false")
	}
	if trip.CurrentParticipants != 0 {
		t.Errorf("CurrentParticipants = %d, want 0", trip.CurrentParticipants)
	}
}

func TestCounterTracksSet(t *testing.T) {
	trip := newTrip(2, 10)
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, u := range users {
		Add(trip, u)
		Add(trip, u) // duplicate adds never skew the counter
	}
	Remove(trip, users[1])

	if trip.CurrentParticipants != len(trip.Participants) {
		t.Errorf("CurrentParticipants = %d, len(Participants) = %d; must match",
			trip.CurrentParticipants, len(trip.Participants))
	}
	if trip.CurrentParticipants != 2 {
		t.Errorf("CurrentParticipants = %d, want 2", trip.CurrentParticipants)
	}
}

func TestCountDerivedStatus(t *testing.T) {
	trip := newTrip(2, 3)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	if trip.Status != models.TripOpen {
		t.Fatalf("initial status = %s, want open", trip.Status)
	}
	Add(trip, a)
	if trip.Status != models.TripOpen {
		t.Errorf("status after 1 participant = %s, want open", trip.Status)
	}
	Add(trip, b)
	if trip.Status != models.TripConfirmed {
		t.Errorf("status after 2 participants = %s, want confirmed", trip.Status)
	}
	Add(trip, c)
	if trip.Status != models.TripFull {
		t.Errorf("status after 3 participants = %s, want full", trip.Status)
	}
	Remove(trip, c)
	if trip.Status != models.TripConfirmed {
		t.Errorf("status after drop to 2 = %s, want confirmed", trip.Status)
	}
	Remove(trip, b)
	Remove(trip, a)
	if trip.Status != models.TripOpen {
		t.Errorf("status after drop to 0 = %s, want open", trip.Status)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		count, min, max int
		want            models.TripStatus
	}{
		{0, 2, 4, models.TripOpen},
		{1, 2, 4, models.TripOpen},
		{2, 2, 4, models.TripConfirmed},
		{3, 2, 4, models.TripConfirmed},
		{4, 2, 4, models.TripFull},
		{5, 2, 4, models.TripFull},
	}
	for _, tt := range tests {
		if got := DeriveStatus(tt.count, tt.min, tt.max); got != tt.want {
			t.Errorf("DeriveStatus(%d, %d, %d) = %s, want %s", tt.count, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestApplyTimeStatus(t *testing.T) {
	now := time.Now()

	t.Run("in-window trip becomes inProgress", func(t *testing.T) {
		trip := newTrip(1, 5)
		trip.StartDate = now.Add(-time.Hour)
		trip.EndDate = now.Add(time.Hour)
		if !ApplyTimeStatus(trip, now) {
			t.Fatal("ApplyTimeStatus() = false, want true")
		}
		if trip.Status != models.TripInProgress {
			t.Errorf("status = %s, want inProgress", trip.Status)
		}
		// Repeated sweeps are no-ops.
		if ApplyTimeStatus(trip, now) {
			t.Error("second sweep changed status again")
		}
	})

	t.Run("past trip becomes completed", func(t *testing.T) {
		trip := newTrip(1, 5)
		trip.StartDate = now.Add(-72 * time.Hour)
		trip.EndDate = now.Add(-24 * time.Hour)
		trip.Status = models.TripInProgress
		if !ApplyTimeStatus(trip, now) {
			t.Fatal("ApplyTimeStatus() = false, want true")
		}
		if trip.Status != models.TripCompleted {
			t.Errorf("status = %s, want completed", trip.Status)
		}
	})

	t.Run("cancelled trip never transitions", func(t *testing.T) {
		trip := newTrip(1, 5)
		trip.StartDate = now.Add(-72 * time.Hour)
		trip.EndDate = now.Add(-24 * time.Hour)
		trip.Status = models.TripCancelled
		if ApplyTimeStatus(trip, now) {
			t.Fatal("ApplyTimeStatus() changed a cancelled trip")
		}
	})

	t.Run("completed is never reverted", func(t *testing.T) {
		trip := newTrip(1, 5)
		trip.StartDate = now.Add(-time.Hour)
		trip.EndDate = now.Add(time.Hour)
		trip.Status = models.TripCompleted
		if ApplyTimeStatus(trip, now) {
			t.Fatal("ApplyTimeStatus() reverted completed to inProgress")
		}
	})
}

func TestMembershipChangeUnderOverlayKeepsStatus(t *testing.T) {
	trip := newTrip(2, 5)
	trip.Status = models.TripInProgress
	user := uuid.New()

	Add(trip, user)
	if trip.Status != models.TripInProgress {
		t.Errorf("status = %s, want inProgress preserved", trip.Status)
	}
	if trip.CurrentParticipants != 1 {
		t.Errorf("CurrentParticipants = %d, want 1", trip.CurrentParticipants)
	}
	Remove(trip, user)
	if trip.Status != models.TripInProgress {
		t.Errorf("status after remove = %s, want inProgress preserved", trip.Status)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	trip := newTrip(1, 5)
	Cancel(trip)
	if trip.Status != models.TripCancelled {
		t.Fatalf("status = %s, want cancelled", trip.Status)
	}

	Add(trip, uuid.New())
	if trip.Status != models.TripCancelled {
		t.Errorf("membership change altered cancelled status: %s", trip.Status)
	}
	if ApplyTimeStatus(trip, trip.EndDate.Add(time.Hour)) {
		t.Error("sweep transitioned a cancelled trip")
	}
}

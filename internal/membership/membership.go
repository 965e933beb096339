// Package membership maintains a trip's participant set, its participant
// counter, and the lifecycle status derived from them. All mutations go
// through the functions here so Participants and CurrentParticipants cannot
// diverge.
//
// Count-derived statuses (open, confirmed, full) are recomputed on every
// membership change. The time-driven overlays (inProgress, completed) and
// explicit cancellation take precedence and are never reversed; membership
// changes under an overlay keep the set and counter consistent without
// touching the status.
//
// Capacity gating is deliberately the caller's job: the booking flow rejects
// accepts on a full trip before invoking Add. This package only reflects
// counts.
package membership

import (
	"time"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/models"
)

// Add puts the user in the trip's participant set. Adding an existing
// participant is a no-op, so the counter never double-counts. Returns
// whether the set changed.
func Add(t *models.Trip, userID uuid.UUID) bool {
	for _, p := range t.Participants {
		if p == userID {
			return false
		}
	}
	t.Participants = append(t.Participants, userID)
	t.CurrentParticipants = len(t.Participants)
	refreshCountStatus(t)
	return true
}

// Remove takes the user out of the trip's participant set. Removing an
// absent user is a no-op. Returns whether the set changed.
func Remove(t *models.Trip, userID uuid.UUID) bool {
	for i, p := range t.Participants {
		if p == userID {
			t.Participants = append(t.Participants[:i], t.Participants[i+1:]...)
			t.CurrentParticipants = len(t.Participants)
			refreshCountStatus(t)
			return true
		}
	}
	return false
}

// DeriveStatus maps a participant count onto the count-derived statuses.
func DeriveStatus(count, minParticipants, maxParticipants int) models.TripStatus {
	switch {
	case count >= maxParticipants:
		return models.TripFull
	case count >= minParticipants:
		return models.TripConfirmed
	default:
		return models.TripOpen
	}
}

// refreshCountStatus applies the count thresholds unless a time overlay or
// cancellation already owns the status.
func refreshCountStatus(t *models.Trip) {
	switch t.Status {
	case models.TripInProgress, models.TripCompleted, models.TripCancelled:
		return
	}
	t.Status = DeriveStatus(t.CurrentParticipants, t.MinParticipants, t.MaxParticipants)
}

// ApplyTimeStatus applies the time-driven overlay for the given instant.
// Transitions are monotonic: a trip never leaves completed or cancelled,
// and inProgress is never reverted by a later sweep within the trip window.
// Returns whether the status changed.
func ApplyTimeStatus(t *models.Trip, now time.Time) bool {
	if t.Status == models.TripCancelled {
		return false
	}
	if now.After(t.EndDate) {
		if t.Status != models.TripCompleted {
			t.Status = models.TripCompleted
			return true
		}
		return false
	}
	if !now.Before(t.StartDate) && t.Status != models.TripInProgress && t.Status != models.TripCompleted {
		t.Status = models.TripInProgress
		return true
	}
	return false
}

// Cancel marks the trip cancelled. Terminal: no automatic transition
// applies afterwards.
func Cancel(t *models.Trip) {
	t.Status = models.TripCancelled
}

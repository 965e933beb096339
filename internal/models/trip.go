package models

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle status of a trip.
type TripStatus string

const (
	TripOpen       TripStatus = "open"
	TripConfirmed  TripStatus = "confirmed"
	TripFull       TripStatus = "full"
	TripInProgress TripStatus = "inProgress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// Terminal reports whether no further automatic transitions apply.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// Trip represents a travel trip organized by a user
type Trip struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	Title               string      `json:"title" db:"title"`
	OrganizerID         uuid.UUID   `json:"organizer_id" db:"organizer_id"`
	StartDate           time.Time   `json:"start_date" db:"start_date"`
	EndDate             time.Time   `json:"end_date" db:"end_date"`
	Status              TripStatus  `json:"status" db:"status"`
	MinParticipants     int         `json:"min_participants" db:"min_participants"`
	MaxParticipants     int         `json:"max_participants" db:"max_participants"`
	CurrentParticipants int         `json:"current_participants" db:"current_participants"`
	Participants        []uuid.UUID `json:"participants"`
	Currency            string      `json:"currency" db:"currency"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

// IsMember reports whether the user is a participant or the organizer.
func (t *Trip) IsMember(userID uuid.UUID) bool {
	if userID == t.OrganizerID {
		return true
	}
	for _, p := range t.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the deduplicated member set, organizer included.
func (t *Trip) MemberIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(t.Participants)+1)
	members := make([]uuid.UUID, 0, len(t.Participants)+1)
	for _, id := range append([]uuid.UUID{t.OrganizerID}, t.Participants...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members
}

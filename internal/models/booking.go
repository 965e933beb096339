package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the state of a booking request.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a user's request to join a trip.
// One booking per user-trip combination.
type Booking struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	TripID    uuid.UUID     `json:"trip_id" db:"trip_id"`
	UserID    uuid.UUID     `json:"user_id" db:"user_id"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

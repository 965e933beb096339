// Package store provides persistence for trips, expenses and bookings.
// The Store interface lets the service layer run against Postgres in
// production and an in-memory implementation in tests.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/models"
)

// ErrNotFound is returned when a trip, expense or booking does not resolve.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write collides with the one-booking-per
// user and trip constraint.
var ErrDuplicate = errors.New("already exists")

// Store is the persistence boundary for the expense and booking services.
type Store interface {
	// GetTrip loads a trip with its participant set.
	GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	// ListTripsForUser returns trips where the user is organizer or participant.
	ListTripsForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	// ListUnfinishedTrips returns trips not yet completed or cancelled,
	// for the periodic status sweep.
	ListUnfinishedTrips(ctx context.Context) ([]models.Trip, error)
	// SaveTripMembership persists the trip's participants, counter and
	// status together so they cannot diverge.
	SaveTripMembership(ctx context.Context, trip *models.Trip) error
	// UpdateTripStatus persists a status-only change.
	UpdateTripStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) error
	// AdvanceTripStatus persists a status change only while the stored
	// status is still non-terminal, so a concurrent cancellation or
	// completion is never overwritten. Reports whether the write landed.
	AdvanceTripStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) (bool, error)

	// CreateExpense appends a ledger entry, assigning ID and timestamps.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense loads a single ledger entry.
	GetExpense(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error)
	// UpdateExpense overwrites an existing ledger entry.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	// DeleteExpense removes a ledger entry.
	DeleteExpense(ctx context.Context, expenseID uuid.UUID) error
	// ListExpensesByTrip returns a consistent snapshot of the trip's
	// ledger, newest expense date first.
	ListExpensesByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error)

	// CreateBooking persists a new booking request. Returns ErrDuplicate
	// when a booking for the same user and trip already exists.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// GetBooking loads a booking.
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	// FindBooking loads the booking for a user and trip pair, if any.
	FindBooking(ctx context.Context, tripID, userID uuid.UUID) (*models.Booking, error)
	// UpdateBookingStatus persists a booking status change.
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) error

	// Close releases any resources held by the store.
	Close() error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/apperror"
	"GO2GETHER_EXPENSES/internal/membership"
	"GO2GETHER_EXPENSES/internal/models"
	"GO2GETHER_EXPENSES/internal/store"
)

// BookingService handles join requests and is the sole writer of trip
// membership. Accepting a booking adds the user to the participant set;
// cancelling removes them. Capacity is enforced here, before the state
// machine is invoked.
type BookingService struct {
	store store.Store
	locks *tripLocks
}

// NewBookingService creates a BookingService sharing the per-trip locker.
func NewBookingService(st store.Store, locks *tripLocks) *BookingService {
	return &BookingService{store: st, locks: locks}
}

// RequestBooking creates a pending booking for the user on the trip.
func (s *BookingService) RequestBooking(ctx context.Context, userID, tripID uuid.UUID) (*models.Booking, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status.Terminal() {
		return nil, apperror.Validationf("trip is %s and no longer accepts bookings", trip.Status)
	}
	if trip.IsMember(userID) {
		return nil, apperror.Validationf("user is already part of this trip")
	}
	if _, err := s.store.FindBooking(ctx, tripID, userID); err == nil {
		return nil, apperror.Validationf("user already has a booking for this trip")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find booking: %w", err)
	}

	booking := &models.Booking{
		TripID: tripID,
		UserID: userID,
		Status: models.BookingPending,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		// Concurrent requests can still race past the lookup; the store's
		// uniqueness constraint is the backstop.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperror.Validationf("user already has a booking for this trip")
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	slog.Info("booking requested", "booking_id", booking.ID, "trip_id", tripID, "user_id", userID)
	return booking, nil
}

// RespondBooking lets the trip organizer accept, decline or cancel a
// booking. Acceptance adds the user to the participant set and re-derives
// the trip status; cancellation removes them the same way. Both membership
// mutations are idempotent.
func (s *BookingService) RespondBooking(ctx context.Context, organizerID, bookingID uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	switch status {
	case models.BookingAccepted, models.BookingDeclined, models.BookingCancelled:
	default:
		return nil, apperror.Validationf("invalid booking status %q", status)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	mu := s.locks.lock(booking.TripID)
	defer mu.Unlock()

	trip, err := s.getTrip(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	if organizerID != trip.OrganizerID {
		return nil, apperror.Authorizationf("only the trip organizer may respond to bookings")
	}

	if status == models.BookingAccepted {
		// Capacity gate lives here, not in the state machine.
		if trip.CurrentParticipants >= trip.MaxParticipants {
			return nil, apperror.Validationf("trip is already full")
		}
		if membership.Add(trip, booking.UserID) {
			if err := s.store.SaveTripMembership(ctx, trip); err != nil {
				return nil, fmt.Errorf("save membership: %w", err)
			}
		}
	}
	if status == models.BookingCancelled {
		if membership.Remove(trip, booking.UserID) {
			if err := s.store.SaveTripMembership(ctx, trip); err != nil {
				return nil, fmt.Errorf("save membership: %w", err)
			}
		}
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	booking.Status = status

	slog.Info("booking updated",
		"booking_id", bookingID,
		"trip_id", trip.ID,
		"user_id", booking.UserID,
		"status", status,
		"trip_status", trip.Status,
		"participants", trip.CurrentParticipants,
	)
	return booking, nil
}

// CancelTrip marks the trip cancelled. Terminal; the status sweep never
// touches it afterwards.
func (s *BookingService) CancelTrip(ctx context.Context, organizerID, tripID uuid.UUID) error {
	mu := s.locks.lock(tripID)
	defer mu.Unlock()

	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if organizerID != trip.OrganizerID {
		return apperror.Authorizationf("only the trip organizer may cancel the trip")
	}

	membership.Cancel(trip)
	if err := s.store.UpdateTripStatus(ctx, tripID, trip.Status); err != nil {
		return fmt.Errorf("update trip status: %w", err)
	}
	slog.Info("trip cancelled", "trip_id", tripID, "organizer_id", organizerID)
	return nil
}

func (s *BookingService) getTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFoundf("trip not found")
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFoundf("booking not found")
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

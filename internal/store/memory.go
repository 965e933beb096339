package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/models"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store used by tests and local development.
// All returned values are copies; mutations only land through the Store
// methods.
type MemoryStore struct {
	mu       sync.RWMutex
	trips    map[uuid.UUID]*models.Trip
	expenses map[uuid.UUID]*models.Expense
	bookings map[uuid.UUID]*models.Booking
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:    make(map[uuid.UUID]*models.Trip),
		expenses: make(map[uuid.UUID]*models.Expense),
		bookings: make(map[uuid.UUID]*models.Booking),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// PutTrip seeds or replaces a trip. Test fixture entry point.
func (s *MemoryStore) PutTrip(trip *models.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.ID] = copyTrip(trip)
}

func copyTrip(t *models.Trip) *models.Trip {
	cp := *t
	cp.Participants = append([]uuid.UUID(nil), t.Participants...)
	return &cp
}

func copyExpense(e *models.Expense) *models.Expense {
	cp := *e
	cp.Split.Participants = append([]models.SplitShare(nil), e.Split.Participants...)
	return &cp
}

func (s *MemoryStore) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTrip(t), nil
}

func (s *MemoryStore) ListTripsForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var trips []models.Trip
	for _, t := range s.trips {
		if t.IsMember(userID) {
			trips = append(trips, *copyTrip(t))
		}
	}
	return trips, nil
}

func (s *MemoryStore) ListUnfinishedTrips(ctx context.Context) ([]models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var trips []models.Trip
	for _, t := range s.trips {
		if !t.Status.Terminal() {
			trips = append(trips, *copyTrip(t))
		}
	}
	return trips, nil
}

func (s *MemoryStore) SaveTripMembership(ctx context.Context, trip *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[trip.ID]; !ok {
		return ErrNotFound
	}
	cp := copyTrip(trip)
	cp.UpdatedAt = time.Now()
	s.trips[trip.ID] = cp
	return nil
}

func (s *MemoryStore) UpdateTripStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

// AdvanceTripStatus writes the status only while the stored trip is still
// non-terminal, mirroring the guarded UPDATE of the Postgres store.
func (s *MemoryStore) AdvanceTripStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return false, nil
	}
	if t.Status.Terminal() {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	now := time.Now()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now
	s.expenses[expense.ID] = copyExpense(expense)
	return nil
}

func (s *MemoryStore) GetExpense(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyExpense(e), nil
}

func (s *MemoryStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[expense.ID]; !ok {
		return ErrNotFound
	}
	expense.UpdatedAt = time.Now()
	s.expenses[expense.ID] = copyExpense(expense)
	return nil
}

func (s *MemoryStore) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[expenseID]; !ok {
		return ErrNotFound
	}
	delete(s.expenses, expenseID)
	return nil
}

func (s *MemoryStore) ListExpensesByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expenses := make([]models.Expense, 0)
	for _, e := range s.expenses {
		if e.TripID == tripID {
			expenses = append(expenses, *copyExpense(e))
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].ExpenseDate.Equal(expenses[j].ExpenseDate) {
			return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate)
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (s *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.TripID == booking.TripID && b.UserID == booking.UserID {
			return ErrDuplicate
		}
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	cp := *booking
	s.bookings[booking.ID] = &cp
	return nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) FindBooking(ctx context.Context, tripID, userID uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.TripID == tripID && b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"GO2GETHER_EXPENSES/internal/models"
)

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool and bootstraps the schema.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresStore) Close() error {
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS trips (
            id                   UUID PRIMARY KEY,
            title                TEXT NOT NULL,
            organizer_id         UUID NOT NULL,
            start_date           TIMESTAMPTZ NOT NULL,
            end_date             TIMESTAMPTZ NOT NULL,
            status               TEXT NOT NULL DEFAULT 'open',
            min_participants     INT NOT NULL,
            max_participants     INT NOT NULL,
            current_participants INT NOT NULL DEFAULT 0,
            currency             TEXT NOT NULL DEFAULT 'EUR',
            created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
        );
        CREATE TABLE IF NOT EXISTS trip_members (
            trip_id   UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
            user_id   UUID NOT NULL,
            joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (trip_id, user_id)
        );
        CREATE TABLE IF NOT EXISTS expenses (
            id                 UUID PRIMARY KEY,
            trip_id            UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
            payer_id           UUID NOT NULL,
            amount             NUMERIC(12,2) NOT NULL,
            currency           TEXT NOT NULL,
            description        TEXT NOT NULL DEFAULT '',
            category           TEXT NOT NULL,
            expense_date       TIMESTAMPTZ NOT NULL,
            split_type         TEXT NOT NULL,
            split_participants JSONB NOT NULL DEFAULT '[]',
            notes              TEXT NOT NULL DEFAULT '',
            created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
        );
        CREATE INDEX IF NOT EXISTS idx_expenses_trip ON expenses (trip_id);
        CREATE TABLE IF NOT EXISTS bookings (
            id         UUID PRIMARY KEY,
            trip_id    UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
            user_id    UUID NOT NULL,
            status     TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            UNIQUE (trip_id, user_id)
        );
    `)
	return err
}

// GetTrip loads a trip row plus its participant set.
func (s *PostgresStore) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var t models.Trip
	err := s.db.QueryRow(ctx,
		`SELECT id, title, organizer_id, start_date, end_date, status, min_participants, max_participants, current_participants, currency, created_at, updated_at
           FROM trips WHERE id = $1`, tripID).Scan(
		&t.ID, &t.Title, &t.OrganizerID, &t.StartDate, &t.EndDate, &t.Status, &t.MinParticipants, &t.MaxParticipants, &t.CurrentParticipants, &t.Currency, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := s.db.Query(ctx, `SELECT user_id FROM trip_members WHERE trip_id = $1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var uid uuid.UUID
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		t.Participants = append(t.Participants, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTripsForUser returns trips where the user organizes or participates.
func (s *PostgresStore) ListTripsForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT t.id
           FROM trips t
           LEFT JOIN trip_members tm ON tm.trip_id = t.id
          WHERE t.organizer_id = $1 OR tm.user_id = $1
          ORDER BY t.id`, userID)
	if err != nil {
		return nil, err
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	return s.loadTrips(ctx, ids)
}

// ListUnfinishedTrips returns every trip the sweep may still transition.
func (s *PostgresStore) ListUnfinishedTrips(ctx context.Context) ([]models.Trip, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id FROM trips WHERE status NOT IN ('completed', 'cancelled') ORDER BY id`)
	if err != nil {
		return nil, err
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	return s.loadTrips(ctx, ids)
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) loadTrips(ctx context.Context, ids []uuid.UUID) ([]models.Trip, error) {
	trips := make([]models.Trip, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTrip(ctx, id)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, nil
}

// SaveTripMembership writes the participant set, counter and status in one
// transaction.
func (s *PostgresStore) SaveTripMembership(ctx context.Context, trip *models.Trip) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE trips SET current_participants = $1, status = $2, updated_at = now() WHERE id = $3`,
		trip.CurrentParticipants, trip.Status, trip.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM trip_members WHERE trip_id = $1`, trip.ID); err != nil {
		return err
	}
	for _, uid := range trip.Participants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trip_members (trip_id, user_id) VALUES ($1, $2) ON CONFLICT (trip_id, user_id) DO NOTHING`,
			trip.ID, uid); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateTripStatus persists a status-only change.
func (s *PostgresStore) UpdateTripStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE trips SET status = $1, updated_at = now() WHERE id = $2`, status, tripID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceTripStatus writes the status only while the stored row is still
// non-terminal. The guard runs inside the UPDATE so a concurrent
// cancellation can never be overwritten by a stale sweep snapshot.
func (s *PostgresStore) AdvanceTripStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE trips SET status = $1, updated_at = now()
          WHERE id = $2 AND status NOT IN ('completed', 'cancelled')`, status, tripID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateExpense appends a ledger entry.
func (s *PostgresStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	now := time.Now()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	participants, err := json.Marshal(expense.Split.Participants)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO expenses (id, trip_id, payer_id, amount, currency, description, category, expense_date, split_type, split_participants, notes, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		expense.ID, expense.TripID, expense.PayerID, expense.Amount, expense.Currency, expense.Description,
		expense.Category, expense.ExpenseDate, expense.Split.Type, participants, expense.Notes,
		expense.CreatedAt, expense.UpdatedAt,
	)
	return err
}

// GetExpense loads one ledger entry.
func (s *PostgresStore) GetExpense(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error) {
	var e models.Expense
	var participants []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, trip_id, payer_id, amount, currency, description, category, expense_date, split_type, split_participants, notes, created_at, updated_at
           FROM expenses WHERE id = $1`, expenseID).Scan(
		&e.ID, &e.TripID, &e.PayerID, &e.Amount, &e.Currency, &e.Description, &e.Category,
		&e.ExpenseDate, &e.Split.Type, &participants, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(participants, &e.Split.Participants); err != nil {
		return nil, fmt.Errorf("decode split participants: %w", err)
	}
	return &e, nil
}

// UpdateExpense overwrites an existing ledger entry.
func (s *PostgresStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now()
	participants, err := json.Marshal(expense.Split.Participants)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE expenses
            SET amount = $1, currency = $2, description = $3, category = $4, expense_date = $5,
                split_type = $6, split_participants = $7, notes = $8, updated_at = $9
          WHERE id = $10`,
		expense.Amount, expense.Currency, expense.Description, expense.Category, expense.ExpenseDate,
		expense.Split.Type, participants, expense.Notes, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense removes a ledger entry.
func (s *PostgresStore) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpensesByTrip returns the trip's ledger, newest expense date first.
func (s *PostgresStore) ListExpensesByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, trip_id, payer_id, amount, currency, description, category, expense_date, split_type, split_participants, notes, created_at, updated_at
           FROM expenses WHERE trip_id = $1
          ORDER BY expense_date DESC, created_at DESC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		var participants []byte
		if err := rows.Scan(
			&e.ID, &e.TripID, &e.PayerID, &e.Amount, &e.Currency, &e.Description, &e.Category,
			&e.ExpenseDate, &e.Split.Type, &participants, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(participants, &e.Split.Participants); err != nil {
			return nil, fmt.Errorf("decode split participants: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CreateBooking persists a new booking request. The unique constraint on
// (trip_id, user_id) surfaces as ErrDuplicate.
func (s *PostgresStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	_, err := s.db.Exec(ctx,
		`INSERT INTO bookings (id, trip_id, user_id, status, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		booking.ID, booking.TripID, booking.UserID, booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

// GetBooking loads a booking.
func (s *PostgresStore) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := s.db.QueryRow(ctx,
		`SELECT id, trip_id, user_id, status, created_at, updated_at FROM bookings WHERE id = $1`, bookingID).Scan(
		&b.ID, &b.TripID, &b.UserID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindBooking loads the booking for a user and trip pair, if any.
func (s *PostgresStore) FindBooking(ctx context.Context, tripID, userID uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := s.db.QueryRow(ctx,
		`SELECT id, trip_id, user_id, status, created_at, updated_at FROM bookings WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID).Scan(
		&b.ID, &b.TripID, &b.UserID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateBookingStatus persists a booking status change.
func (s *PostgresStore) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`, status, bookingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

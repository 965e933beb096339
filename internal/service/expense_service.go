// Package service implements the expense ledger, settlement and booking
// operations on top of the store, keeping handlers free of business rules.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/apperror"
	"GO2GETHER_EXPENSES/internal/ledger"
	"GO2GETHER_EXPENSES/internal/models"
	"GO2GETHER_EXPENSES/internal/store"
)

// ExpenseService records, edits and deletes trip expenses, computes
// balances, and settles debts.
type ExpenseService struct {
	store store.Store
	locks *tripLocks
}

// NewExpenseService creates an ExpenseService sharing the per-trip locker.
func NewExpenseService(st store.Store, locks *tripLocks) *ExpenseService {
	return &ExpenseService{store: st, locks: locks}
}

// ExpenseInput is the client payload to record an expense.
type ExpenseInput struct {
	TripID      uuid.UUID
	Amount      float64
	Currency    string
	Description string
	Category    string
	ExpenseDate time.Time
	Split       models.SplitDetails
	Notes       string
}

// ExpenseUpdate carries the fields an edit may change. Nil means keep.
type ExpenseUpdate struct {
	Amount      *float64
	Currency    *string
	Description *string
	Category    *string
	ExpenseDate *time.Time
	Split       *models.SplitDetails
	Notes       *string
}

// TripBalance is one member's signed net position on a trip.
type TripBalance struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance float64   `json:"balance"`
}

// TripBalanceSummary is the per-trip read view for a single caller.
type TripBalanceSummary struct {
	TripID    uuid.UUID `json:"trip_id"`
	TripTitle string    `json:"trip_title"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
}

// RecordExpense validates and appends a new ledger entry.
func (s *ExpenseService) RecordExpense(ctx context.Context, payerID uuid.UUID, in ExpenseInput) (*models.Expense, error) {
	trip, err := s.getTrip(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsMember(payerID) {
		return nil, apperror.Authorizationf("payer is not part of this trip")
	}
	if err := s.validateExpense(trip, in.Amount, in.Description, in.Category, in.Split); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = trip.Currency
	}
	expenseDate := in.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	expense := &models.Expense{
		TripID:      in.TripID,
		PayerID:     payerID,
		Amount:      in.Amount,
		Currency:    currency,
		Description: in.Description,
		Category:    in.Category,
		ExpenseDate: expenseDate,
		Split:       in.Split,
		Notes:       in.Notes,
	}

	mu := s.locks.lock(in.TripID)
	defer mu.Unlock()
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	slog.Info("expense recorded",
		"expense_id", expense.ID,
		"trip_id", expense.TripID,
		"payer_id", payerID,
		"amount", expense.Amount,
		"split_type", expense.Split.Type,
	)
	return expense, nil
}

// EditExpense applies a partial update. Only the expense's payer or the
// trip's organizer may edit; changed split details are re-validated the
// same way as creation.
func (s *ExpenseService) EditExpense(ctx context.Context, editorID, expenseID uuid.UUID, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.getExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	trip, err := s.getTrip(ctx, expense.TripID)
	if err != nil {
		return nil, err
	}
	if editorID != expense.PayerID && editorID != trip.OrganizerID {
		return nil, apperror.Authorizationf("only the payer or the trip organizer may edit this expense")
	}

	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.Currency != nil {
		expense.Currency = *update.Currency
	}
	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Category != nil {
		expense.Category = *update.Category
	}
	if update.ExpenseDate != nil {
		expense.ExpenseDate = *update.ExpenseDate
	}
	if update.Notes != nil {
		expense.Notes = *update.Notes
	}
	if update.Split != nil {
		expense.Split = *update.Split
	}

	// Settlement entries are distributor-built; their shares intentionally
	// need not sum to the amount, so only client-authored splits re-validate.
	if expense.Split.Type != models.SplitSettlementPayout || update.Split != nil {
		if err := s.validateExpense(trip, expense.Amount, expense.Description, expense.Category, expense.Split); err != nil {
			return nil, err
		}
	} else if expense.Amount <= 0 {
		return nil, apperror.Validationf("amount must be a positive number")
	}

	mu := s.locks.lock(expense.TripID)
	defer mu.Unlock()
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFoundf("expense not found")
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}

	slog.Info("expense edited", "expense_id", expense.ID, "trip_id", expense.TripID, "editor_id", editorID)
	return expense, nil
}

// DeleteExpense removes a ledger entry. Same authorization rule as edit.
func (s *ExpenseService) DeleteExpense(ctx context.Context, editorID, expenseID uuid.UUID) error {
	expense, err := s.getExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	trip, err := s.getTrip(ctx, expense.TripID)
	if err != nil {
		return err
	}
	if editorID != expense.PayerID && editorID != trip.OrganizerID {
		return apperror.Authorizationf("only the payer or the trip organizer may delete this expense")
	}

	mu := s.locks.lock(expense.TripID)
	defer mu.Unlock()
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NotFoundf("expense not found")
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	slog.Info("expense deleted", "expense_id", expenseID, "trip_id", expense.TripID, "editor_id", editorID)
	return nil
}

// TripExpenses returns the trip and its ledger for a member, newest first.
func (s *ExpenseService) TripExpenses(ctx context.Context, requesterID, tripID uuid.UUID) (*models.Trip, []models.Expense, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	if !trip.IsMember(requesterID) {
		return nil, nil, apperror.Authorizationf("user not authorized for this trip")
	}
	expenses, err := s.store.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("list expenses: %w", err)
	}
	return trip, expenses, nil
}

// TripBalances replays the trip's ledger and returns the trip with every
// member's net position, zero-balance members included.
func (s *ExpenseService) TripBalances(ctx context.Context, requesterID, tripID uuid.UUID) (*models.Trip, []TripBalance, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	if !trip.IsMember(requesterID) {
		return nil, nil, apperror.Authorizationf("user not authorized for this trip")
	}
	balances, err := s.computeBalances(ctx, trip)
	if err != nil {
		return nil, nil, err
	}

	members := trip.MemberIDs()
	out := make([]TripBalance, 0, len(balances))
	for _, id := range members {
		out = append(out, TripBalance{UserID: id, Balance: balances[id]})
	}
	// Historical members no longer in the trip still carry their shares.
	for id, bal := range balances {
		if !trip.IsMember(id) {
			out = append(out, TripBalance{UserID: id, Balance: bal})
		}
	}
	return trip, out, nil
}

// SingleBalance is a convenience read of one member's balance.
func (s *ExpenseService) SingleBalance(ctx context.Context, requesterID, tripID uuid.UUID, userID uuid.UUID) (float64, error) {
	_, balances, err := s.TripBalances(ctx, requesterID, tripID)
	if err != nil {
		return 0, err
	}
	for _, b := range balances {
		if b.UserID == userID {
			return b.Balance, nil
		}
	}
	return 0, apperror.NotFoundf("user %s has no balance on this trip", userID)
}

// MyBalances aggregates one signed balance per trip the caller belongs to.
func (s *ExpenseService) MyBalances(ctx context.Context, userID uuid.UUID) ([]TripBalanceSummary, error) {
	trips, err := s.store.ListTripsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}

	summaries := make([]TripBalanceSummary, 0, len(trips))
	for i := range trips {
		trip := &trips[i]
		balances, err := s.computeBalances(ctx, trip)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TripBalanceSummary{
			TripID:    trip.ID,
			TripTitle: trip.Title,
			Balance:   balances[userID],
			Currency:  trip.Currency,
		})
	}
	return summaries, nil
}

// Settle pays down the debtor's negative balance across the trip's
// creditors and appends the resulting settlement entry to the ledger.
// Replaying that entry moves the debtor to approximately zero.
func (s *ExpenseService) Settle(ctx context.Context, debtorID, tripID uuid.UUID) (*models.Expense, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsMember(debtorID) {
		return nil, apperror.Authorizationf("user is not part of this trip")
	}

	mu := s.locks.lock(tripID)
	defer mu.Unlock()

	balances, err := s.computeBalances(ctx, trip)
	if err != nil {
		return nil, err
	}
	dist, err := ledger.Distribute(balances, debtorID)
	if err != nil {
		return nil, err
	}

	// Settlement payouts bypass the sum-of-shares validation: clipping
	// means they need not sum to the settled amount exactly.
	expense := &models.Expense{
		TripID:      tripID,
		PayerID:     debtorID,
		Amount:      dist.AmountToSettle,
		Currency:    trip.Currency,
		Description: "Settlement payment",
		Category:    models.SettlementCategory,
		ExpenseDate: time.Now(),
		Split: models.SplitDetails{
			Type:         models.SplitSettlementPayout,
			Participants: dist.Payouts,
		},
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}

	slog.Info("settlement recorded",
		"expense_id", expense.ID,
		"trip_id", tripID,
		"debtor_id", debtorID,
		"amount", dist.AmountToSettle,
		"payouts", len(dist.Payouts),
	)
	return expense, nil
}

func (s *ExpenseService) computeBalances(ctx context.Context, trip *models.Trip) (map[uuid.UUID]float64, error) {
	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	balances, err := ledger.ComputeBalances(trip.MemberIDs(), expenses)
	if err != nil {
		return nil, apperror.Validationf("%v", err)
	}
	return balances, nil
}

func (s *ExpenseService) validateExpense(trip *models.Trip, amount float64, description, category string, split models.SplitDetails) error {
	if amount <= 0 {
		return apperror.Validationf("amount must be a positive number")
	}
	if description == "" {
		return apperror.Validationf("description is required")
	}
	if category == models.SettlementCategory {
		return apperror.Validationf("category %q is reserved for settlements", category)
	}
	if !models.ValidCategory(category) {
		return apperror.Validationf("invalid category %q", category)
	}
	if split.Type == models.SplitSettlementPayout {
		return apperror.Validationf("split type %q is reserved for settlements", split.Type)
	}
	for _, p := range split.Participants {
		if !trip.IsMember(p.UserID) {
			return apperror.Validationf("participant %s is not part of this trip", p.UserID)
		}
	}
	if err := ledger.ValidateSplit(amount, split); err != nil {
		return apperror.Validationf("%v", err)
	}
	return nil
}

func (s *ExpenseService) getTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFoundf("trip not found")
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

func (s *ExpenseService) getExpense(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFoundf("expense not found")
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

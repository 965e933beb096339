package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/apperror"
	"GO2GETHER_EXPENSES/internal/models"
	"GO2GETHER_EXPENSES/internal/store"
)

var (
	organizer = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	userB     = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	userC     = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	stranger  = uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
)

func seedTrip(st *store.MemoryStore, members ...uuid.UUID) *models.Trip {
	trip := &models.Trip{
		ID:                  uuid.New(),
		Title:               "Test Trip",
		OrganizerID:         organizer,
		StartDate:           time.Now().Add(24 * time.Hour),
		EndDate:             time.Now().Add(96 * time.Hour),
		Status:              models.TripConfirmed,
		MinParticipants:     2,
		MaxParticipants:     5,
		Currency:            "EUR",
		Participants:        append([]uuid.UUID{organizer}, members...),
		CurrentParticipants: 1 + len(members),
	}
	st.PutTrip(trip)
	return trip
}

func newExpenseService(st *store.MemoryStore) *ExpenseService {
	return NewExpenseService(st, NewTripLocks())
}

func equalInput(tripID uuid.UUID, amount float64, participants ...uuid.UUID) ExpenseInput {
	shares := make([]models.SplitShare, len(participants))
	for i, p := range participants {
		shares[i] = models.SplitShare{UserID: p}
	}
	return ExpenseInput{
		TripID:      tripID,
		Amount:      amount,
		Description: "dinner",
		Category:    "Food & Drinks",
		Split:       models.SplitDetails{Type: models.SplitEqually, Participants: shares},
	}
}

func TestRecordExpense(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	expense, err := svc.RecordExpense(ctx, organizer, equalInput(trip.ID, 90, organizer, userB, userC))
	if err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}
	if expense.ID == uuid.Nil {
		t.Error("expense was not assigned an ID")
	}
	if expense.Currency != "EUR" {
		t.Errorf("Currency = %q, want trip default EUR", expense.Currency)
	}
	if expense.ExpenseDate.IsZero() {
		t.Error("ExpenseDate was not defaulted")
	}

	stored, err := st.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if stored.Amount != 90 {
		t.Errorf("stored amount = %v, want 90", stored.Amount)
	}
}

func TestRecordExpenseRejections(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	tests := []struct {
		name     string
		payer    uuid.UUID
		mutate   func(*ExpenseInput)
		wantKind apperror.Kind
	}{
		{
			name:     "payer outside the trip",
			payer:    stranger,
			mutate:   func(in *ExpenseInput) {},
			wantKind: apperror.KindAuthorization,
		},
		{
			name:     "zero amount",
			payer:    organizer,
			mutate:   func(in *ExpenseInput) { in.Amount = 0 },
			wantKind: apperror.KindValidation,
		},
		{
			name:     "negative amount",
			payer:    organizer,
			mutate:   func(in *ExpenseInput) { in.Amount = -12 },
			wantKind: apperror.KindValidation,
		},
		{
			name:     "missing description",
			payer:    organizer,
			mutate:   func(in *ExpenseInput) { in.Description = "" },
			wantKind: apperror.KindValidation,
		},
		{
			name:     "unknown category",
			payer:    organizer,
			mutate:   func(in *ExpenseInput) { in.Category = "Bribes" },
			wantKind: apperror.KindValidation,
		},
		{
			name:     "settlement category from a client",
			payer:    organizer,
			mutate:   func(in *ExpenseInput) { in.Category = models.SettlementCategory },
			wantKind: apperror.KindValidation,
		},
		{
			name:  "split participant outside the trip",
			payer: organizer,
			mutate: func(in *ExpenseInput) {
				in.Split.Participants = append(in.Split.Participants, models.SplitShare{UserID: stranger})
			},
			wantKind: apperror.KindValidation,
		},
		{
			name:  "settlement split type from a client",
			payer: organizer,
			mutate: func(in *ExpenseInput) {
				in.Split.Type = models.SplitSettlementPayout
			},
			wantKind: apperror.KindValidation,
		},
		{
			name:  "unequal shares that disagree with the amount",
			payer: organizer,
			mutate: func(in *ExpenseInput) {
				in.Split = models.SplitDetails{
					Type: models.SplitUnequallyByAmount,
					Participants: []models.SplitShare{
						{UserID: userB, AmountOwed: 40},
						{UserID: userC, AmountOwed: 40},
					},
				}
			},
			wantKind: apperror.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := equalInput(trip.ID, 90, organizer, userB, userC)
			tt.mutate(&in)
			_, err := svc.RecordExpense(ctx, tt.payer, in)
			if !apperror.IsKind(err, tt.wantKind) {
				t.Errorf("RecordExpense() error = %v, want kind %d", err, tt.wantKind)
			}
		})
	}

	t.Run("unknown trip", func(t *testing.T) {
		_, err := svc.RecordExpense(ctx, organizer, equalInput(uuid.New(), 90, organizer))
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("RecordExpense() error = %v, want not found", err)
		}
	})
}

func TestEditExpenseAuthorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		editor  uuid.UUID
		wantErr bool
	}{
		{"payer may edit", userB, false},
		{"organizer may edit", organizer, false},
		{"other member may not edit", userC, true},
		{"stranger may not edit", stranger, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			svc := newExpenseService(st)
			trip := seedTrip(st, userB, userC)
			expense, err := svc.RecordExpense(ctx, userB, equalInput(trip.ID, 60, organizer, userB, userC))
			if err != nil {
				t.Fatalf("RecordExpense() error = %v", err)
			}

			amount := 75.0
			updated, err := svc.EditExpense(ctx, tt.editor, expense.ID, ExpenseUpdate{Amount: &amount})
			if tt.wantErr {
				if !apperror.IsKind(err, apperror.KindAuthorization) {
					t.Errorf("EditExpense() error = %v, want authorization error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EditExpense() error = %v", err)
			}
			if updated.Amount != 75 {
				t.Errorf("Amount = %v, want 75", updated.Amount)
			}
		})
	}
}

func TestEditExpenseRevalidatesSplit(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	expense, err := svc.RecordExpense(ctx, userB, equalInput(trip.ID, 60, userB, userC))
	if err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	badSplit := models.SplitDetails{
		Type: models.SplitUnequallyByAmount,
		Participants: []models.SplitShare{
			{UserID: userB, AmountOwed: 10},
			{UserID: userC, AmountOwed: 10},
		},
	}
	if _, err := svc.EditExpense(ctx, userB, expense.ID, ExpenseUpdate{Split: &badSplit}); !apperror.IsKind(err, apperror.KindValidation) {
		t.Errorf("EditExpense() with mismatched shares error = %v, want validation error", err)
	}

	goodSplit := models.SplitDetails{
		Type: models.SplitUnequallyByAmount,
		Participants: []models.SplitShare{
			{UserID: userB, AmountOwed: 20},
			{UserID: userC, AmountOwed: 40},
		},
	}
	updated, err := svc.EditExpense(ctx, userB, expense.ID, ExpenseUpdate{Split: &goodSplit})
	if err != nil {
		t.Fatalf("EditExpense() error = %v", err)
	}
	if updated.Split.Type != models.SplitUnequallyByAmount {
		t.Errorf("split type = %s, want unequally_by_amount", updated.Split.Type)
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	expense, err := svc.RecordExpense(ctx, userB, equalInput(trip.ID, 60, organizer, userB, userC))
	if err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	if err := svc.DeleteExpense(ctx, userC, expense.ID); !apperror.IsKind(err, apperror.KindAuthorization) {
		t.Errorf("DeleteExpense() by non-payer error = %v, want authorization error", err)
	}
	if err := svc.DeleteExpense(ctx, userB, expense.ID); err != nil {
		t.Fatalf("DeleteExpense() by payer error = %v", err)
	}
	if err := svc.DeleteExpense(ctx, userB, expense.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("DeleteExpense() on deleted expense error = %v, want not found", err)
	}

	_, balances, err := svc.TripBalances(ctx, organizer, trip.ID)
	if err != nil {
		t.Fatalf("TripBalances() error = %v", err)
	}
	for _, b := range balances {
		if b.Balance != 0 {
			t.Errorf("balance for %s = %v after deletion, want 0", b.UserID, b.Balance)
		}
	}
}

func TestTripExpenses(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	if _, err := svc.RecordExpense(ctx, organizer, equalInput(trip.ID, 90, organizer, userB, userC)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	got, expenses, err := svc.TripExpenses(ctx, userB, trip.ID)
	if err != nil {
		t.Fatalf("TripExpenses() error = %v", err)
	}
	if got.Title != "Test Trip" {
		t.Errorf("trip title = %q, want %q", got.Title, "Test Trip")
	}
	if len(got.MemberIDs()) != 3 {
		t.Errorf("got %d members, want 3", len(got.MemberIDs()))
	}
	if len(expenses) != 1 {
		t.Fatalf("got %d expenses, want 1", len(expenses))
	}
	if expenses[0].Amount != 90 {
		t.Errorf("amount = %v, want 90", expenses[0].Amount)
	}

	if _, _, err := svc.TripExpenses(ctx, stranger, trip.ID); !apperror.IsKind(err, apperror.KindAuthorization) {
		t.Errorf("TripExpenses() for stranger error = %v, want authorization error", err)
	}
}

func TestTripBalances(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	// Organizer pays 90 split across all three: +60 / -30 / -30.
	if _, err := svc.RecordExpense(ctx, organizer, equalInput(trip.ID, 90, organizer, userB, userC)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	got, balances, err := svc.TripBalances(ctx, userB, trip.ID)
	if err != nil {
		t.Fatalf("TripBalances() error = %v", err)
	}
	if got.Currency != "EUR" {
		t.Errorf("trip currency = %q, want EUR", got.Currency)
	}
	want := map[uuid.UUID]float64{organizer: 60, userB: -30, userC: -30}
	if len(balances) != len(want) {
		t.Fatalf("got %d balances, want %d", len(balances), len(want))
	}
	for _, b := range balances {
		if math.Abs(b.Balance-want[b.UserID]) > 0.01 {
			t.Errorf("balance for %s = %v, want %v", b.UserID, b.Balance, want[b.UserID])
		}
	}

	if _, _, err := svc.TripBalances(ctx, stranger, trip.ID); !apperror.IsKind(err, apperror.KindAuthorization) {
		t.Errorf("TripBalances() for stranger error = %v, want authorization error", err)
	}
}

func TestSingleBalance(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB)

	if _, err := svc.RecordExpense(ctx, organizer, equalInput(trip.ID, 50, organizer, userB)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	bal, err := svc.SingleBalance(ctx, userB, trip.ID, userB)
	if err != nil {
		t.Fatalf("SingleBalance() error = %v", err)
	}
	if math.Abs(bal-(-25)) > 0.01 {
		t.Errorf("SingleBalance() = %v, want -25", bal)
	}

	if _, err := svc.SingleBalance(ctx, userB, trip.ID, stranger); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("SingleBalance() for absent user error = %v, want not found", err)
	}
}

func TestMyBalances(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)

	tripA := seedTrip(st, userB)
	tripB := seedTrip(st, userB, userC)

	if _, err := svc.RecordExpense(ctx, organizer, equalInput(tripA.ID, 50, organizer, userB)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}
	if _, err := svc.RecordExpense(ctx, userB, equalInput(tripB.ID, 90, organizer, userB, userC)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	summaries, err := svc.MyBalances(ctx, userB)
	if err != nil {
		t.Fatalf("MyBalances() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	want := map[uuid.UUID]float64{tripA.ID: -25, tripB.ID: 60}
	for _, s := range summaries {
		if math.Abs(s.Balance-want[s.TripID]) > 0.01 {
			t.Errorf("balance for trip %s = %v, want %v", s.TripID, s.Balance, want[s.TripID])
		}
		if s.Currency != "EUR" {
			t.Errorf("currency = %q, want EUR", s.Currency)
		}
	}
}

func TestSettleZeroesTheDebtor(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	// organizer +60, userB -30, userC -30
	if _, err := svc.RecordExpense(ctx, organizer, equalInput(trip.ID, 90, organizer, userB, userC)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	settlement, err := svc.Settle(ctx, userB, trip.ID)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if settlement.Category != models.SettlementCategory {
		t.Errorf("settlement category = %q, want %q", settlement.Category, models.SettlementCategory)
	}
	if settlement.Split.Type != models.SplitSettlementPayout {
		t.Errorf("settlement split type = %s, want SETTLEMENT_PAYOUT", settlement.Split.Type)
	}
	if math.Abs(settlement.Amount-30) > 0.01 {
		t.Errorf("settlement amount = %v, want 30", settlement.Amount)
	}

	_, balances, err := svc.TripBalances(ctx, userB, trip.ID)
	if err != nil {
		t.Fatalf("TripBalances() error = %v", err)
	}
	for _, b := range balances {
		switch b.UserID {
		case userB:
			if math.Abs(b.Balance) > 0.01 {
				t.Errorf("debtor balance after settle = %v, want 0", b.Balance)
			}
		case organizer:
			if math.Abs(b.Balance-30) > 0.01 {
				t.Errorf("creditor balance after settle = %v, want 30", b.Balance)
			}
		}
	}

	// Settling again must refuse: the debt is gone.
	if _, err := svc.Settle(ctx, userB, trip.ID); !apperror.IsKind(err, apperror.KindNoDebt) {
		t.Errorf("second Settle() error = %v, want no-debt error", err)
	}
}

func TestSettleRejections(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := newExpenseService(st)
	trip := seedTrip(st, userB, userC)

	if _, err := svc.RecordExpense(ctx, organizer, equalInput(trip.ID, 90, organizer, userB, userC)); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	// The organizer is a creditor, not a debtor.
	if _, err := svc.Settle(ctx, organizer, trip.ID); !apperror.IsKind(err, apperror.KindNoDebt) {
		t.Errorf("Settle() for creditor error = %v, want no-debt error", err)
	}
	if _, err := svc.Settle(ctx, stranger, trip.ID); !apperror.IsKind(err, apperror.KindAuthorization) {
		t.Errorf("Settle() for stranger error = %v, want authorization error", err)
	}
	if _, err := svc.Settle(ctx, userB, uuid.New()); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("Settle() on unknown trip error = %v, want not found", err)
	}
}

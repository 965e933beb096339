package models

import (
	"time"

	"github.com/google/uuid"
)

// SplitType determines how an expense's cost is divided among participants.
// The set is closed: balance replay handles every variant exhaustively and
// treats anything else as an error.
type SplitType string

const (
	// SplitEqually divides the amount evenly across the listed participants.
	SplitEqually SplitType = "equally"
	// SplitUnequallyByAmount assigns each participant an explicit owed amount.
	SplitUnequallyByAmount SplitType = "unequally_by_amount"
	// SplitSettlementPayout is produced only by the settlement distributor.
	// AmountOwed denotes an amount received from the payer, so replaying it
	// reduces the creditor's balance instead of adding to their debt.
	SplitSettlementPayout SplitType = "SETTLEMENT_PAYOUT"
)

// SettlementCategory marks ledger entries created by the settlement distributor.
const SettlementCategory = "SETTLEMENT"

// SplitShare is one participant's part of a split.
type SplitShare struct {
	UserID     uuid.UUID `json:"user_id"`
	AmountOwed float64   `json:"amount_owed"`
}

// SplitDetails is the split rule attached to an expense.
type SplitDetails struct {
	Type         SplitType    `json:"type"`
	Participants []SplitShare `json:"participants"`
}

// Expense is one immutable ledger entry for a trip.
type Expense struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	TripID      uuid.UUID    `json:"trip_id" db:"trip_id"`
	PayerID     uuid.UUID    `json:"payer_id" db:"payer_id"`
	Amount      float64      `json:"amount" db:"amount"`
	Currency    string       `json:"currency" db:"currency"`
	Description string       `json:"description" db:"description"`
	Category    string       `json:"category" db:"category"`
	ExpenseDate time.Time    `json:"expense_date" db:"expense_date"`
	Split       SplitDetails `json:"split_details"`
	Notes       string       `json:"notes" db:"notes"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// ExpenseCategories is the accepted category set for client-recorded expenses.
var ExpenseCategories = []string{
	"Food & Drinks", "Groceries", "Restaurants & Cafes",
	"Transportation", "Flights", "Trains", "Buses & Taxis", "Fuel", "Rental Car",
	"Accommodation", "Hotel", "Hostel", "Vacation Rental",
	"Activities & Entertainment", "Tours", "Tickets & Events", "Souvenirs", "Shopping",
	"Health & Wellness", "Fees & Charges", "Utilities", "Gifts", "Miscellaneous",
}

// ValidCategory reports whether c is an accepted expense category.
func ValidCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

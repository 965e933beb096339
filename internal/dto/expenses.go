package dto

// SplitShare is one participant's part of a split in requests and responses
type SplitShare struct {
	User       string  `json:"user"`
	AmountOwed float64 `json:"amount_owed,omitempty"`
}

// SplitDetails is the split rule payload
type SplitDetails struct {
	Type         string       `json:"type"` // equally | unequally_by_amount
	Participants []SplitShare `json:"participants"`
}

// CreateExpenseRequest represents the payload to record an expense
type CreateExpenseRequest struct {
	Trip         string       `json:"trip"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	ExpenseDate  string       `json:"expense_date"` // ISO 8601 format: YYYY-MM-DD or RFC3339
	SplitDetails SplitDetails `json:"split_details"`
	Notes        string       `json:"notes"`
}

// UpdateExpenseRequest represents fields allowed to update an expense
// All fields are optional; only provided ones will be updated
type UpdateExpenseRequest struct {
	Amount       *float64      `json:"amount"`
	Currency     *string       `json:"currency"`
	Description  *string       `json:"description"`
	Category     *string       `json:"category"`
	ExpenseDate  *string       `json:"expense_date"`
	SplitDetails *SplitDetails `json:"split_details"`
	Notes        *string       `json:"notes"`
}

// ExpenseResponse represents an expense object in responses
type ExpenseResponse struct {
	ID           string       `json:"id"`
	Trip         string       `json:"trip"`
	Payer        string       `json:"payer"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	ExpenseDate  string       `json:"expense_date"`
	SplitDetails SplitDetails `json:"split_details"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

// TripExpensesResponse envelope for a trip's ledger
type TripExpensesResponse struct {
	TripTitle    string            `json:"trip_title"`
	Expenses     []ExpenseResponse `json:"expenses"`
	Participants []string          `json:"participants"`
}

// BalanceEntry is one member's signed net position
type BalanceEntry struct {
	User    string  `json:"user"`
	Balance float64 `json:"balance"`
}

// TripBalancesResponse envelope for a trip's balance sheet
type TripBalancesResponse struct {
	TripID   string         `json:"trip_id"`
	Currency string         `json:"currency"`
	Balances []BalanceEntry `json:"balances"`
}

// MyBalanceItem is the caller's signed balance on one trip
type MyBalanceItem struct {
	TripID    string  `json:"trip_id"`
	TripTitle string  `json:"trip_title"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

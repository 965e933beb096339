// Package ledger computes per-member balances for a trip by replaying its
// expense records, and synthesizes settlement payouts that pay down a
// debtor's balance against the trip's creditors.
//
// The ledger itself is append-mostly storage owned by the store layer; this
// package holds the pure aggregation and distribution logic so the same code
// runs identically against any storage backend and in tests.
package ledger

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/models"
)

const (
	// Epsilon below which a balance counts as settled.
	Epsilon = 0.001
	// SumTolerance is the accepted absolute drift between an unequal
	// split's shares and the expense amount.
	SumTolerance = 0.01
)

// Round2 rounds to 2-decimal currency precision. Only applied at output
// boundaries; accumulation keeps full precision to avoid compounding
// rounding error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeBalances replays every expense and returns each member's net
// position: paid minus owed share, rounded to 2 decimals. Members with no
// ledger activity get a zero entry. Users no longer in the member list keep
// their historical shares; their entries appear alongside current members.
//
// The ledger is zero-sum by construction, so the returned balances sum to
// approximately zero.
func ComputeBalances(memberIDs []uuid.UUID, expenses []models.Expense) (map[uuid.UUID]float64, error) {
	balances := make(map[uuid.UUID]float64, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = 0
	}

	for _, exp := range expenses {
		balances[exp.PayerID] += exp.Amount

		switch exp.Split.Type {
		case models.SplitEqually:
			n := len(exp.Split.Participants)
			if n == 0 {
				return nil, fmt.Errorf("expense %s: equal split with no participants", exp.ID)
			}
			share := exp.Amount / float64(n)
			for _, p := range exp.Split.Participants {
				balances[p.UserID] -= share
			}
		case models.SplitUnequallyByAmount, models.SplitSettlementPayout:
			for _, p := range exp.Split.Participants {
				balances[p.UserID] -= p.AmountOwed
			}
		default:
			return nil, fmt.Errorf("expense %s: unhandled split type %q", exp.ID, exp.Split.Type)
		}
	}

	for id, v := range balances {
		balances[id] = Round2(v)
	}
	return balances, nil
}

// ValidateSplit checks a client-supplied split rule against the expense
// amount. Settlement payouts never pass through here; the distributor
// constructs them directly.
func ValidateSplit(amount float64, split models.SplitDetails) error {
	if len(split.Participants) == 0 {
		return fmt.Errorf("split must name at least one participant")
	}
	switch split.Type {
	case models.SplitEqually:
		// Per-participant amounts are implied; nothing further to check.
		return nil
	case models.SplitUnequallyByAmount:
		sum := 0.0
		for _, p := range split.Participants {
			if p.AmountOwed < 0 {
				return fmt.Errorf("owed amount for %s must not be negative", p.UserID)
			}
			sum += p.AmountOwed
		}
		if math.Abs(sum-amount) > SumTolerance {
			return fmt.Errorf("sum of owed amounts (%.2f) does not match total expense amount (%.2f)", sum, amount)
		}
		return nil
	default:
		return fmt.Errorf("unsupported split type %q", split.Type)
	}
}

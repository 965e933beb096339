package ledger

import (
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/apperror"
	"GO2GETHER_EXPENSES/internal/models"
)

// residualMax bounds the rounding leftover folded into the first payout.
const residualMax = 0.05

// Distribution is the result of distributing a debtor's balance across
// creditors.
type Distribution struct {
	// AmountToSettle is the debtor's debt, as a positive amount.
	AmountToSettle float64
	// Payouts lists each paid creditor and the amount they receive,
	// ordered ascending by creditor id.
	Payouts []models.SplitShare
}

// Distribute pays down debtorID's negative balance across the members with
// positive balances, proportionally to what each is owed. Payouts are
// clipped so no creditor receives more than their credit and the total never
// exceeds the debt; a sub-5-cent rounding residual is folded into the first
// payout rather than dropped.
//
// A balance sheet with a debtor but no creditors is an inconsistent ledger
// state. It is logged and degraded to an empty payout list so the debtor's
// settlement attempt still records.
func Distribute(balances map[uuid.UUID]float64, debtorID uuid.UUID) (*Distribution, error) {
	debt, ok := balances[debtorID]
	if !ok || debt >= -Epsilon {
		return nil, apperror.NoDebtf("user %s has no outstanding debt to settle", debtorID)
	}
	amountToSettle := Round2(-debt)

	type creditor struct {
		id      uuid.UUID
		balance float64
	}
	var creditors []creditor
	totalCredit := 0.0
	for id, bal := range balances {
		if id != debtorID && bal > Epsilon {
			creditors = append(creditors, creditor{id: id, balance: bal})
			totalCredit += bal
		}
	}
	// Stable order keeps the distribution deterministic.
	sort.Slice(creditors, func(i, j int) bool {
		return creditors[i].id.String() < creditors[j].id.String()
	})

	dist := &Distribution{AmountToSettle: amountToSettle}
	if totalCredit <= Epsilon {
		slog.Warn("settlement requested with no identifiable creditors",
			"debtor_id", debtorID,
			"amount", amountToSettle,
		)
		return dist, nil
	}

	remaining := amountToSettle
	for _, c := range creditors {
		if remaining <= Epsilon {
			break
		}
		raw := (c.balance / totalCredit) * amountToSettle
		paid := Round2(math.Min(raw, math.Min(c.balance, remaining)))
		if paid <= 0 {
			continue
		}
		dist.Payouts = append(dist.Payouts, models.SplitShare{UserID: c.id, AmountOwed: paid})
		remaining -= paid
	}

	remaining = Round2(remaining)
	if remaining > 0 && remaining < residualMax && len(dist.Payouts) > 0 {
		dist.Payouts[0].AmountOwed = Round2(dist.Payouts[0].AmountOwed + remaining)
	}

	return dist, nil
}

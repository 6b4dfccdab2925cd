package calculator

import (
	"fmt"
	"sort"

	"splitbook/internal/models"
)

// Payment is one suggested transfer in a settlement plan.
type Payment struct {
	// FromMemberID is the debtor making the payment.
	FromMemberID string

	// ToMemberID is the creditor receiving it.
	ToMemberID string

	// AmountCents is the transfer amount in minor units.
	AmountCents int64
}

// PlanSettlement converts net balances into an ordered sequence of payments
// that zero every member's balance.
//
// Greedy matching: the largest creditor is repeatedly paired with the largest
// debtor and the smaller magnitude is transferred. Ties are broken by member
// ID ascending so the plan is reproducible. The result has at most
// len(balances)-1 payments. This does not guarantee the theoretical minimum
// number of transfers (an NP-hard partition problem); it is a deterministic
// O(n log n) approximation.
//
// Returns ErrInvariant if the balances do not sum to zero, which indicates a
// defect upstream rather than bad input.
func PlanSettlement(balances map[string]int64) ([]Payment, error) {
	type position struct {
		id    string
		cents int64
	}

	var creditors, debtors []position
	var sum int64
	for id, b := range balances {
		sum += b
		switch {
		case b > 0:
			creditors = append(creditors, position{id: id, cents: b})
		case b < 0:
			debtors = append(debtors, position{id: id, cents: b})
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: settlement input sums to %d cents, want 0", models.ErrInvariant, sum)
	}

	// Largest creditor first; most negative debtor first.
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].cents != creditors[j].cents {
			return creditors[i].cents > creditors[j].cents
		}
		return creditors[i].id < creditors[j].id
	})
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].cents != debtors[j].cents {
			return debtors[i].cents < debtors[j].cents
		}
		return debtors[i].id < debtors[j].id
	})

	var plan []Payment
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owe := -debtors[i].cents
		due := creditors[j].cents

		amount := owe
		if due < amount {
			amount = due
		}

		plan = append(plan, Payment{
			FromMemberID: debtors[i].id,
			ToMemberID:   creditors[j].id,
			AmountCents:  amount,
		})

		debtors[i].cents += amount
		creditors[j].cents -= amount
		if debtors[i].cents == 0 {
			i++
		}
		if creditors[j].cents == 0 {
			j++
		}
	}

	// Both sides must be exhausted together since the input sums to zero.
	if i < len(debtors) || j < len(creditors) {
		return nil, fmt.Errorf("%w: settlement left unpaired balances", models.ErrInvariant)
	}

	return plan, nil
}

// ApplyPlan returns a copy of balances with every payment applied. Used to
// verify that a plan zeroes all positions.
func ApplyPlan(balances map[string]int64, plan []Payment) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, p := range plan {
		out[p.FromMemberID] += p.AmountCents
		out[p.ToMemberID] -= p.AmountCents
	}
	return out
}

// Package calculator derives net member balances from a group's ledger and
// plans settlement payments. All arithmetic is in integer cents; every
// transaction's charges sum exactly to its amount, so the conservation
// invariant (balances sum to zero) is exact.
package calculator

import (
	"fmt"
	"sort"

	"splitbook/internal/models"
)

// GroupBalances computes each member's signed net balance in cents:
// positive means the member should receive money, negative means they owe.
//
// For every transaction the payer is credited the full amount and each
// charged member is debited their share: an explicit split charges
// amount * weight / sum(weights), an empty split charges every group member
// equally. Recorded settlements shift balance from receiver to payer.
//
// A group with zero transactions yields a zero balance for every member.
func GroupBalances(members []string, txs []*models.Transaction, settlements []*models.Settlement) (map[string]int64, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: group has no members", models.ErrValidation)
	}

	balances := make(map[string]int64, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	for _, tx := range txs {
		charges, err := txCharges(tx, members, balances)
		if err != nil {
			return nil, err
		}
		balances[tx.PayerID] += tx.Amount.Cents
		for member, cents := range charges {
			balances[member] -= cents
		}
	}

	for _, s := range settlements {
		if _, ok := balances[s.FromUserID]; !ok {
			return nil, fmt.Errorf("%w: settlement payer %s is not a group member", models.ErrValidation, s.FromUserID)
		}
		if _, ok := balances[s.ToUserID]; !ok {
			return nil, fmt.Errorf("%w: settlement receiver %s is not a group member", models.ErrValidation, s.ToUserID)
		}
		// The debtor paid out of pocket, the creditor was made whole.
		balances[s.FromUserID] += s.Amount.Cents
		balances[s.ToUserID] -= s.Amount.Cents
	}

	var sum int64
	for _, b := range balances {
		sum += b
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: balances sum to %d cents, want 0", models.ErrInvariant, sum)
	}

	return balances, nil
}

// txCharges returns each member's share of one transaction, in cents.
// Amounts and weights are bounded (models.MaxCents, models.MaxSplitWeight)
// so the share products in divideByWeight stay inside int64.
func txCharges(tx *models.Transaction, members []string, balances map[string]int64) (map[string]int64, error) {
	if err := tx.Amount.Validate(); err != nil {
		return nil, err
	}
	if _, ok := balances[tx.PayerID]; !ok {
		return nil, fmt.Errorf("%w: payer %s is not a group member", models.ErrValidation, tx.PayerID)
	}

	participants := members
	weights := make(map[string]int64, len(members))
	if len(tx.Splits) > 0 {
		participants = make([]string, 0, len(tx.Splits))
		for _, sp := range tx.Splits {
			if _, ok := balances[sp.MemberID]; !ok {
				return nil, fmt.Errorf("%w: split member %s is not a group member", models.ErrValidation, sp.MemberID)
			}
			if sp.Weight < 0 {
				return nil, fmt.Errorf("%w: negative split weight for %s", models.ErrValidation, sp.MemberID)
			}
			if sp.Weight > models.MaxSplitWeight {
				return nil, fmt.Errorf("%w: split weight for %s exceeds the maximum of %d", models.ErrValidation, sp.MemberID, models.MaxSplitWeight)
			}
			participants = append(participants, sp.MemberID)
			weights[sp.MemberID] = sp.Weight
		}
	} else {
		for _, m := range members {
			weights[m] = 1
		}
	}

	return divideByWeight(tx.Amount.Cents, participants, weights)
}

// divideByWeight splits amount cents across participants in proportion to
// their weights, handing out the remainder cents by largest fractional part
// (member ID ascending on ties) so the shares always sum to amount exactly.
func divideByWeight(amount int64, participants []string, weights map[string]int64) (map[string]int64, error) {
	var totalWeight int64
	for _, id := range participants {
		totalWeight += weights[id]
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("%w: split weights must sum to a positive value", models.ErrValidation)
	}

	// Deterministic iteration order regardless of input order.
	ids := append([]string(nil), participants...)
	sort.Strings(ids)

	charges := make(map[string]int64, len(ids))
	remainders := make(map[string]int64, len(ids))
	var assigned int64
	for _, id := range ids {
		w := weights[id]
		share := amount * w / totalWeight
		charges[id] = share
		remainders[id] = amount * w % totalWeight
		assigned += share
	}

	leftover := amount - assigned
	if leftover > 0 {
		order := append([]string(nil), ids...)
		sort.Slice(order, func(i, j int) bool {
			if remainders[order[i]] != remainders[order[j]] {
				return remainders[order[i]] > remainders[order[j]]
			}
			return order[i] < order[j]
		})
		for i := int64(0); i < leftover; i++ {
			charges[order[i]]++
		}
	}

	return charges, nil
}

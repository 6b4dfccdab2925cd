package models

// Settlement records an executed payment between two group members to clear
// debt. Settlements are offsetting ledger entries: balance calculation counts
// the payer as having advanced the amount and the receiver as having been
// charged it.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the debtor who paid.
	FromUserID string

	// ToUserID is the creditor who received the payment.
	ToUserID string

	// Amount is the positive payment amount, in minor units.
	Amount Money

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the user who recorded the settlement.
	CreatedBy string
}

// PeriodTotal is an aggregate of spending over one calendar period
// ("2026-08" for months, "2026" for years).
type PeriodTotal struct {
	Period     string
	TotalCents int64
	Count      int64
}

// CategoryTotal is an aggregate of spending within one category.
type CategoryTotal struct {
	Category   string
	TotalCents int64
	Count      int64
}

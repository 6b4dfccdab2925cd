package models

// Transaction is a single monetary event. A transaction with an empty
// GroupID is personal to its payer; a group-scoped transaction is advanced
// in full by the payer and charged to members according to Splits (or
// equally across all members when Splits is empty).
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// PayerID is the user who paid the full amount. For group-scoped
	// transactions the payer must be a member of the group.
	PayerID string

	// GroupID scopes the transaction to a group. Empty for personal expenses.
	GroupID string

	// Amount is the positive total, in minor units.
	Amount Money

	// Category is free-text classification (e.g., "groceries").
	Category string

	// Description is an optional human note.
	Description string

	// OccurredAt is the Unix timestamp of the expense itself.
	OccurredAt int64

	// CreatedAt is the Unix timestamp when the record was appended.
	CreatedAt int64

	// Splits optionally assigns per-member cost weights. Empty means an
	// equal split across all group members. The sum of weights must be
	// positive.
	Splits []Split
}

// Split is one member's weight in a transaction's cost division.
// A member charged weight w pays amount * w / sum(weights).
type Split struct {
	MemberID string
	Weight   int64
}

// MaxSplitWeight bounds a single split weight. Together with MaxCents it
// keeps amount * weight products inside int64.
const MaxSplitWeight int64 = 1_000_000

// TransactionUpdate enumerates the fields a transaction's owner may correct
// before settlement. Nil fields are left unchanged; correction never changes
// the transaction ID.
type TransactionUpdate struct {
	Amount      *Money
	Category    *string
	Description *string
	OccurredAt  *int64
}

// Empty reports whether the update changes nothing. An empty update is a
// permitted no-op.
func (u TransactionUpdate) Empty() bool {
	return u.Amount == nil && u.Category == nil && u.Description == nil && u.OccurredAt == nil
}

// TransactionFilter selects transactions for a query. Zero values mean
// "no constraint"; From and To are inclusive Unix-second bounds.
type TransactionFilter struct {
	PayerID  string
	GroupID  string
	Category string
	From     int64
	To       int64
}

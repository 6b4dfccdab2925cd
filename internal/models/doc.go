// Package models defines the core domain models for splitbook.
//
// # Models
//
//   - User: registered account, identified by a unique username
//   - Group: a named, fixed set of member user IDs
//   - Transaction: a single monetary event, personal or group-scoped
//   - Settlement: an executed payment between two group members
//
// # Money
//
// All amounts are integer minor units (cents). Floating point never touches
// balance arithmetic, so the conservation invariant (group balances sum to
// zero) holds exactly rather than within an epsilon. Decimal strings are
// converted to cents at the API boundary only.
//
// # Design Principles
//
//  1. Use ID strings instead of pointers for relationships
//  2. Timestamps are Unix seconds (int64)
//  3. Partial updates go through an explicit TransactionUpdate struct that
//     enumerates the fields allowed to change; no free-form field merging
package models

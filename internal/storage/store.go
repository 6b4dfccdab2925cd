// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"splitbook/internal/models"
)

// Store defines the persistence interface for the ledger. The abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the service layer.
//
// Get* and lookup methods return an error wrapping models.ErrNotFound when
// the referenced entity does not exist.
type Store interface {
	// CreateUser persists a new user. The user.ID field must be set.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by their unique username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. Users that do not
	// exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group with its membership rows.
	// Generates ID and CreatedAt when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group, members included.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser retrieves every group the user belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateTransaction persists a new transaction with its split rows.
	// Generates ID and CreatedAt when unset.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction, splits included.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// UpdateTransaction applies a partial update to a transaction owned by
	// ownerID. Returns models.ErrNotFound if no such owned transaction
	// exists. An empty update is a no-op.
	UpdateTransaction(ctx context.Context, id, ownerID string, upd models.TransactionUpdate) error

	// DeleteTransaction removes a transaction owned by ownerID.
	DeleteTransaction(ctx context.Context, id, ownerID string) error

	// ListTransactions returns transactions matching the filter, ordered by
	// occurred-at descending with ties broken by insertion order.
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)

	// CreateSettlement persists a recorded settlement.
	// Generates ID and CreatedAt when unset.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves all settlements for a group, newest
	// first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// MonthlyTotals aggregates a user's spending per calendar month,
	// oldest first.
	MonthlyTotals(ctx context.Context, userID string) ([]models.PeriodTotal, error)

	// YearlyTotals aggregates a user's spending per calendar year,
	// oldest first.
	YearlyTotals(ctx context.Context, userID string) ([]models.PeriodTotal, error)

	// CategoryTotals aggregates a user's spending per category, largest
	// total first.
	CategoryTotals(ctx context.Context, userID string) ([]models.CategoryTotal, error)

	// Close releases any resources held by the store.
	Close() error
}

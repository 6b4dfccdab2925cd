package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"splitbook/internal/models"
)

// CreateTransaction persists a new transaction and its split rows atomically.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.CreatedAt == 0 {
		transaction.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if transaction.GroupID != "" {
		groupID = transaction.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, payer_id, group_id, amount_cents, category, description, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID, transaction.PayerID, groupID, transaction.Amount.Cents,
		transaction.Category, transaction.Description, transaction.OccurredAt, transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for _, split := range transaction.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO transaction_splits (transaction_id, member_id, weight) VALUES (?, ?, ?)",
			transaction.ID, split.MemberID, split.Weight,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID, splits included.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	var groupID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, payer_id, group_id, amount_cents, category, description, occurred_at, created_at
		 FROM transactions WHERE id = ?`,
		id,
	).Scan(&transaction.ID, &transaction.PayerID, &groupID, &transaction.Amount.Cents,
		&transaction.Category, &transaction.Description, &transaction.OccurredAt, &transaction.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if groupID.Valid {
		transaction.GroupID = groupID.String
	}

	splits, err := s.transactionSplits(ctx, []string{transaction.ID})
	if err != nil {
		return nil, err
	}
	transaction.Splits = splits[transaction.ID]

	return transaction, nil
}

// UpdateTransaction applies a partial update to a transaction owned by
// ownerID. Only amount, category, description and occurred-at may change;
// an empty update is a permitted no-op.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, id, ownerID string, upd models.TransactionUpdate) error {
	if upd.Empty() {
		// Still verify the target exists and is owned by the caller.
		var one int
		err := s.db.QueryRowContext(ctx,
			"SELECT 1 FROM transactions WHERE id = ? AND payer_id = ?", id, ownerID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: transaction %s for user %s", models.ErrNotFound, id, ownerID)
		}
		if err != nil {
			return fmt.Errorf("failed to check transaction: %w", err)
		}
		return nil
	}

	var sets []string
	var args []interface{}
	if upd.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, upd.Amount.Cents)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.OccurredAt != nil {
		sets = append(sets, "occurred_at = ?")
		args = append(args, *upd.OccurredAt)
	}
	args = append(args, id, ownerID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ? AND payer_id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s for user %s", models.ErrNotFound, id, ownerID)
	}

	return nil
}

// DeleteTransaction removes a transaction owned by ownerID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND payer_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s for user %s", models.ErrNotFound, id, ownerID)
	}

	return nil
}

// ListTransactions returns transactions matching the filter, ordered by
// occurred-at descending. Ties keep insertion order (rowid ascending) so
// the ordering is stable across identical queries.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	query := `SELECT id, payer_id, group_id, amount_cents, category, description, occurred_at, created_at
		 FROM transactions WHERE 1=1`
	var args []interface{}

	if filter.PayerID != "" {
		query += " AND payer_id = ?"
		args = append(args, filter.PayerID)
	}
	if filter.GroupID != "" {
		query += " AND group_id = ?"
		args = append(args, filter.GroupID)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.From != 0 {
		query += " AND occurred_at >= ?"
		args = append(args, filter.From)
	}
	if filter.To != 0 {
		query += " AND occurred_at <= ?"
		args = append(args, filter.To)
	}
	query += " ORDER BY occurred_at DESC, rowid ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	var ids []string
	for rows.Next() {
		transaction := &models.Transaction{}
		var groupID sql.NullString
		if err := rows.Scan(&transaction.ID, &transaction.PayerID, &groupID, &transaction.Amount.Cents,
			&transaction.Category, &transaction.Description, &transaction.OccurredAt, &transaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if groupID.Valid {
			transaction.GroupID = groupID.String
		}
		transactions = append(transactions, transaction)
		ids = append(ids, transaction.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	splits, err := s.transactionSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, transaction := range transactions {
		transaction.Splits = splits[transaction.ID]
	}

	return transactions, nil
}

// transactionSplits loads split rows for the given transaction IDs in one
// query, keyed by transaction ID.
func (s *SQLiteStore) transactionSplits(ctx context.Context, ids []string) (map[string][]models.Split, error) {
	splits := make(map[string][]models.Split, len(ids))
	if len(ids) == 0 {
		return splits, nil
	}

	query := `SELECT transaction_id, member_id, weight FROM transaction_splits
		 WHERE transaction_id IN (?` + repeatPlaceholder(len(ids)-1) + `) ORDER BY member_id`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID string
		var split models.Split
		if err := rows.Scan(&txID, &split.MemberID, &split.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan transaction split: %w", err)
		}
		splits[txID] = append(splits[txID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction splits: %w", err)
	}

	return splits, nil
}

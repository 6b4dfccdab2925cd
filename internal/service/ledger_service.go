// Package service implements the ledger engine's operations on top of the
// storage layer: validated appends and corrections, filtered queries, group
// balances and settlement planning.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"splitbook/internal/events"
	"splitbook/internal/models"
	"splitbook/internal/storage"
)

// LedgerService owns the transaction lifecycle: append, correct, remove,
// query. All mutations for a scope are serialized through shared locks.
type LedgerService struct {
	store     storage.Store
	publisher events.Publisher
	locks     *ScopeLocks
}

// NewLedgerService creates a LedgerService. The locks instance must be the
// same one handed to GroupService so balance snapshots see a quiescent
// ledger.
func NewLedgerService(store storage.Store, publisher events.Publisher, locks *ScopeLocks) *LedgerService {
	return &LedgerService{store: store, publisher: publisher, locks: locks}
}

// mutationScope picks the serialization scope for a transaction: its group,
// or the payer for personal expenses.
func mutationScope(tx *models.Transaction) string {
	if tx.GroupID != "" {
		return "group:" + tx.GroupID
	}
	return "user:" + tx.PayerID
}

// Append validates and persists a new transaction, returning its ID. The
// transaction becomes visible to all subsequent reads for its owner/group.
func (s *LedgerService) Append(ctx context.Context, tx *models.Transaction) (string, error) {
	if err := s.validateAppend(ctx, tx); err != nil {
		return "", err
	}
	if tx.OccurredAt == 0 {
		tx.OccurredAt = time.Now().Unix()
	}

	err := s.locks.Write(mutationScope(tx), func() error {
		return s.store.CreateTransaction(ctx, tx)
	})
	if err != nil {
		return "", err
	}

	slog.Info("Transaction appended",
		"transaction_id", tx.ID,
		"payer_id", tx.PayerID,
		"group_id", tx.GroupID,
		"amount_cents", tx.Amount.Cents,
	)

	if err := s.publisher.TransactionAppended(ctx, events.NewTransactionAppendedEvent(tx)); err != nil {
		// Event delivery is best effort; the append already committed.
		slog.Warn("Failed to publish transaction event", "transaction_id", tx.ID, "error", err)
	}

	return tx.ID, nil
}

func (s *LedgerService) validateAppend(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.PayerID == "" {
		return fmt.Errorf("%w: payer required", models.ErrValidation)
	}
	if _, err := s.store.GetUserByID(ctx, tx.PayerID); err != nil {
		return fmt.Errorf("%w: unknown payer %s", models.ErrValidation, tx.PayerID)
	}

	if tx.GroupID == "" {
		if len(tx.Splits) > 0 {
			return fmt.Errorf("%w: splits require a group", models.ErrValidation)
		}
		return nil
	}

	group, err := s.store.GetGroup(ctx, tx.GroupID)
	if err != nil {
		return fmt.Errorf("%w: unknown group %s", models.ErrValidation, tx.GroupID)
	}
	if !group.HasMember(tx.PayerID) {
		return fmt.Errorf("%w: payer %s is not a member of group %s", models.ErrValidation, tx.PayerID, tx.GroupID)
	}

	var weightSum int64
	seen := make(map[string]bool, len(tx.Splits))
	for _, split := range tx.Splits {
		if !group.HasMember(split.MemberID) {
			return fmt.Errorf("%w: split member %s is not a member of group %s", models.ErrValidation, split.MemberID, tx.GroupID)
		}
		if seen[split.MemberID] {
			return fmt.Errorf("%w: duplicate split member %s", models.ErrValidation, split.MemberID)
		}
		seen[split.MemberID] = true
		if split.Weight < 0 {
			return fmt.Errorf("%w: negative split weight for %s", models.ErrValidation, split.MemberID)
		}
		if split.Weight > models.MaxSplitWeight {
			return fmt.Errorf("%w: split weight for %s exceeds the maximum of %d", models.ErrValidation, split.MemberID, models.MaxSplitWeight)
		}
		weightSum += split.Weight
	}
	if len(tx.Splits) > 0 && weightSum <= 0 {
		return fmt.Errorf("%w: split weights must sum to a positive value", models.ErrValidation)
	}

	return nil
}

// Update applies a partial correction to a transaction owned by ownerID.
// The transaction ID never changes; an empty update is a permitted no-op.
func (s *LedgerService) Update(ctx context.Context, id, ownerID string, upd models.TransactionUpdate) error {
	if upd.Amount != nil {
		if err := upd.Amount.Validate(); err != nil {
			return err
		}
	}

	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if existing.PayerID != ownerID {
		return fmt.Errorf("%w: transaction %s for user %s", models.ErrNotFound, id, ownerID)
	}

	err = s.locks.Write(mutationScope(existing), func() error {
		return s.store.UpdateTransaction(ctx, id, ownerID, upd)
	})
	if err != nil {
		return err
	}

	slog.Info("Transaction updated", "transaction_id", id, "owner_id", ownerID)
	return nil
}

// Remove deletes a transaction owned by ownerID.
func (s *LedgerService) Remove(ctx context.Context, id, ownerID string) error {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if existing.PayerID != ownerID {
		return fmt.Errorf("%w: transaction %s for user %s", models.ErrNotFound, id, ownerID)
	}

	err = s.locks.Write(mutationScope(existing), func() error {
		return s.store.DeleteTransaction(ctx, id, ownerID)
	})
	if err != nil {
		return err
	}

	slog.Info("Transaction removed", "transaction_id", id, "owner_id", ownerID)
	return nil
}

// Get retrieves a transaction visible to callerID: their own, or one in a
// group they belong to. Anything else reads as not found.
func (s *LedgerService) Get(ctx context.Context, id, callerID string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.PayerID == callerID {
		return tx, nil
	}
	if tx.GroupID != "" {
		group, err := s.store.GetGroup(ctx, tx.GroupID)
		if err == nil && group.HasMember(callerID) {
			return tx, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s for user %s", models.ErrNotFound, id, callerID)
}

// Query returns transactions matching the filter, ordered by occurred-at
// descending with stable ties.
func (s *LedgerService) Query(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	return s.store.ListTransactions(ctx, filter)
}

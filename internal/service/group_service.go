package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"splitbook/internal/calculator"
	"splitbook/internal/models"
	"splitbook/internal/storage"
)

// GroupService owns group lifecycle, balance derivation and settlement.
type GroupService struct {
	store storage.Store
	locks *ScopeLocks
}

// NewGroupService creates a GroupService sharing the ledger's scope locks.
func NewGroupService(store storage.Store, locks *ScopeLocks) *GroupService {
	return &GroupService{store: store, locks: locks}
}

// CreateGroup creates a group with the given members. Every member ID must
// reference an existing user; membership is fixed after creation.
func (s *GroupService) CreateGroup(ctx context.Context, name string, memberIDs []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", models.ErrValidation)
	}

	// Dedup while preserving caller order.
	var members []string
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: group needs at least one member", models.ErrValidation)
	}

	existing, err := s.store.GetUsersByIDs(ctx, members)
	if err != nil {
		return nil, err
	}
	for _, id := range members {
		if existing[id] == nil {
			return nil, fmt.Errorf("%w: unknown member %s", models.ErrValidation, id)
		}
	}

	group := &models.Group{Name: name, Members: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members_count", len(members))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroupsForUser returns every group the user belongs to.
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// Balances derives each member's net position from a consistent snapshot of
// the group's ledger. Positive means the member should receive money,
// negative means they owe. A group with no transactions yields a zero
// balance per member.
func (s *GroupService) Balances(ctx context.Context, groupID string) (map[string]int64, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var balances map[string]int64
	err = s.locks.Read("group:"+groupID, func() error {
		txs, err := s.store.ListTransactions(ctx, models.TransactionFilter{GroupID: groupID})
		if err != nil {
			return err
		}
		settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		balances, err = calculator.GroupBalances(group.Members, txs, settlements)
		return err
	})
	if err != nil {
		return nil, err
	}

	return balances, nil
}

// PlanSettlement computes balances and converts them into a deterministic
// payment plan that zeroes every member's position.
func (s *GroupService) PlanSettlement(ctx context.Context, groupID string) ([]calculator.Payment, error) {
	balances, err := s.Balances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	plan, err := calculator.PlanSettlement(balances)
	if err != nil {
		return nil, err
	}

	slog.Info("Settlement planned", "group_id", groupID, "payments_count", len(plan))
	return plan, nil
}

// RecordSettlement records an executed payment between two members. The
// settlement enters balance calculation as an offsetting entry.
func (s *GroupService) RecordSettlement(ctx context.Context, settlement *models.Settlement) error {
	if err := settlement.Amount.Validate(); err != nil {
		return err
	}
	if settlement.FromUserID == settlement.ToUserID {
		return fmt.Errorf("%w: payer and receiver must differ", models.ErrValidation)
	}

	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(settlement.FromUserID) {
		return fmt.Errorf("%w: payer %s is not a member of group %s", models.ErrValidation, settlement.FromUserID, group.ID)
	}
	if !group.HasMember(settlement.ToUserID) {
		return fmt.Errorf("%w: receiver %s is not a member of group %s", models.ErrValidation, settlement.ToUserID, group.ID)
	}

	err = s.locks.Write("group:"+group.ID, func() error {
		return s.store.CreateSettlement(ctx, settlement)
	})
	if err != nil {
		return err
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount_cents", settlement.Amount.Cents,
	)
	return nil
}

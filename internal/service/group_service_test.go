package service

import (
	"context"
	"errors"
	"testing"

	"splitbook/internal/models"
)

func TestGroupService_CreateGroup(t *testing.T) {
	_, groups, store := newTestLedger(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	tests := []struct {
		name        string
		groupName   string
		memberIDs   []string
		wantErr     error
		wantMembers int
	}{
		{
			name:        "two members",
			groupName:   "Roommates",
			memberIDs:   []string{alice.ID, bob.ID},
			wantMembers: 2,
		},
		{
			name:        "duplicate members deduped",
			groupName:   "Trip",
			memberIDs:   []string{alice.ID, alice.ID, bob.ID},
			wantMembers: 2,
		},
		{
			name:      "duplicate name",
			groupName: "Roommates",
			memberIDs: []string{alice.ID},
			wantErr:   models.ErrValidation,
		},
		{
			name:      "blank name",
			groupName: "   ",
			memberIDs: []string{alice.ID},
			wantErr:   models.ErrValidation,
		},
		{
			name:      "no members",
			groupName: "Empty",
			memberIDs: nil,
			wantErr:   models.ErrValidation,
		},
		{
			name:      "unknown member",
			groupName: "Ghosts",
			memberIDs: []string{alice.ID, "nonexistent"},
			wantErr:   models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := groups.CreateGroup(ctx, tt.groupName, tt.memberIDs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateGroup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateGroup() unexpected error: %v", err)
			}
			if len(group.Members) != tt.wantMembers {
				t.Errorf("got %d members, want %d", len(group.Members), tt.wantMembers)
			}

			got, err := groups.GetGroup(ctx, group.ID)
			if err != nil {
				t.Fatalf("GetGroup() after create: %v", err)
			}
			if got.Name != group.Name {
				t.Errorf("Name = %q, want %q", got.Name, group.Name)
			}
		})
	}
}

func TestGroupService_Balances(t *testing.T) {
	ledger, groups, store := newTestLedger(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")
	group := seedGroup(t, groups, "Trip", []string{alice.ID, bob.ID, carol.ID})

	t.Run("empty ledger yields zero balances", func(t *testing.T) {
		balances, err := groups.Balances(ctx, group.ID)
		if err != nil {
			t.Fatalf("Balances() failed: %v", err)
		}
		if len(balances) != 3 {
			t.Fatalf("got %d balances, want 3", len(balances))
		}
		for id, b := range balances {
			if b != 0 {
				t.Errorf("balance for %s = %d, want 0", id, b)
			}
		}
	})

	t.Run("equal split", func(t *testing.T) {
		_, err := ledger.Append(ctx, &models.Transaction{
			PayerID: alice.ID,
			GroupID: group.ID,
			Amount:  models.FromCents(9000),
		})
		if err != nil {
			t.Fatalf("Append() failed: %v", err)
		}

		balances, err := groups.Balances(ctx, group.ID)
		if err != nil {
			t.Fatalf("Balances() failed: %v", err)
		}
		want := map[string]int64{alice.ID: 6000, bob.ID: -3000, carol.ID: -3000}
		for id, w := range want {
			if balances[id] != w {
				t.Errorf("balance for %s = %d, want %d", id, balances[id], w)
			}
		}
	})

	t.Run("recorded settlement offsets debt", func(t *testing.T) {
		err := groups.RecordSettlement(ctx, &models.Settlement{
			GroupID:    group.ID,
			FromUserID: bob.ID,
			ToUserID:   alice.ID,
			Amount:     models.FromCents(3000),
			CreatedBy:  bob.ID,
		})
		if err != nil {
			t.Fatalf("RecordSettlement() failed: %v", err)
		}

		balances, err := groups.Balances(ctx, group.ID)
		if err != nil {
			t.Fatalf("Balances() failed: %v", err)
		}
		want := map[string]int64{alice.ID: 3000, bob.ID: 0, carol.ID: -3000}
		for id, w := range want {
			if balances[id] != w {
				t.Errorf("balance for %s = %d, want %d", id, balances[id], w)
			}
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		if _, err := groups.Balances(ctx, "nonexistent"); !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("Balances() error = %v, want ErrNotFound", err)
		}
	})
}

func TestGroupService_PlanSettlement(t *testing.T) {
	ledger, groups, store := newTestLedger(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")
	group := seedGroup(t, groups, "Trip", []string{alice.ID, bob.ID, carol.ID})

	// Alice fronts 9000, split equally: bob and carol each owe 3000.
	if _, err := ledger.Append(ctx, &models.Transaction{
		PayerID: alice.ID,
		GroupID: group.ID,
		Amount:  models.FromCents(9000),
	}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	plan, err := groups.PlanSettlement(ctx, group.ID)
	if err != nil {
		t.Fatalf("PlanSettlement() failed: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("got %d payments, want 2", len(plan))
	}
	for _, p := range plan {
		if p.ToMemberID != alice.ID {
			t.Errorf("payment to %s, want %s", p.ToMemberID, alice.ID)
		}
		if p.AmountCents != 3000 {
			t.Errorf("payment amount = %d, want 3000", p.AmountCents)
		}
	}

	// Executing the plan and re-deriving balances must zero everyone out.
	for _, p := range plan {
		err := groups.RecordSettlement(ctx, &models.Settlement{
			GroupID:    group.ID,
			FromUserID: p.FromMemberID,
			ToUserID:   p.ToMemberID,
			Amount:     models.FromCents(p.AmountCents),
			CreatedBy:  p.FromMemberID,
		})
		if err != nil {
			t.Fatalf("RecordSettlement() failed: %v", err)
		}
	}

	balances, err := groups.Balances(ctx, group.ID)
	if err != nil {
		t.Fatalf("Balances() failed: %v", err)
	}
	for id, b := range balances {
		if b != 0 {
			t.Errorf("balance for %s = %d after settling, want 0", id, b)
		}
	}

	settled, err := groups.PlanSettlement(ctx, group.ID)
	if err != nil {
		t.Fatalf("PlanSettlement() on settled group failed: %v", err)
	}
	if len(settled) != 0 {
		t.Errorf("got %d payments for settled group, want 0", len(settled))
	}
}

func TestGroupService_RecordSettlement_Validation(t *testing.T) {
	_, groups, store := newTestLedger(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	outsider := seedUser(t, store, "carol")
	group := seedGroup(t, groups, "Pair", []string{alice.ID, bob.ID})

	tests := []struct {
		name       string
		settlement *models.Settlement
		wantErr    error
	}{
		{
			name: "zero amount",
			settlement: &models.Settlement{
				GroupID: group.ID, FromUserID: alice.ID, ToUserID: bob.ID,
				Amount: models.FromCents(0), CreatedBy: alice.ID,
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "self payment",
			settlement: &models.Settlement{
				GroupID: group.ID, FromUserID: alice.ID, ToUserID: alice.ID,
				Amount: models.FromCents(100), CreatedBy: alice.ID,
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "unknown group",
			settlement: &models.Settlement{
				GroupID: "nonexistent", FromUserID: alice.ID, ToUserID: bob.ID,
				Amount: models.FromCents(100), CreatedBy: alice.ID,
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "payer outside group",
			settlement: &models.Settlement{
				GroupID: group.ID, FromUserID: outsider.ID, ToUserID: bob.ID,
				Amount: models.FromCents(100), CreatedBy: outsider.ID,
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "receiver outside group",
			settlement: &models.Settlement{
				GroupID: group.ID, FromUserID: alice.ID, ToUserID: outsider.ID,
				Amount: models.FromCents(100), CreatedBy: alice.ID,
			},
			wantErr: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := groups.RecordSettlement(ctx, tt.settlement)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RecordSettlement() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGroupService_ListGroupsForUser(t *testing.T) {
	_, groups, store := newTestLedger(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	seedGroup(t, groups, "Roommates", []string{alice.ID, bob.ID})
	seedGroup(t, groups, "Solo", []string{alice.ID})

	got, err := groups.ListGroupsForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListGroupsForUser() failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("alice: got %d groups, want 2", len(got))
	}

	got, err = groups.ListGroupsForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListGroupsForUser() failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("bob: got %d groups, want 1", len(got))
	}
}

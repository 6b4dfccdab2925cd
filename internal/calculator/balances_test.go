package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"splitbook/internal/models"
)

func tx(payer string, cents int64, splits ...models.Split) *models.Transaction {
	return &models.Transaction{
		PayerID: payer,
		Amount:  models.FromCents(cents),
		Splits:  splits,
	}
}

func TestGroupBalances(t *testing.T) {
	members := []string{"A", "B", "C"}

	tests := []struct {
		name        string
		txs         []*models.Transaction
		settlements []*models.Settlement
		want        map[string]int64
		wantErr     error
	}{
		{
			name: "equal split default",
			// 90.00 paid by A, split three ways
			txs:  []*models.Transaction{tx("A", 9000)},
			want: map[string]int64{"A": 6000, "B": -3000, "C": -3000},
		},
		{
			name: "explicit weights",
			// 100.00 paid by A with weights A:1 B:1 C:2 -> charges 25/25/50
			txs: []*models.Transaction{tx("A", 10000,
				models.Split{MemberID: "A", Weight: 1},
				models.Split{MemberID: "B", Weight: 1},
				models.Split{MemberID: "C", Weight: 2},
			)},
			want: map[string]int64{"A": 7500, "B": -2500, "C": -5000},
		},
		{
			name: "zero transactions yields all-zero mapping",
			txs:  nil,
			want: map[string]int64{"A": 0, "B": 0, "C": 0},
		},
		{
			name: "non-divisible amount stays conserved",
			// 100.00 / 3 = 33.33 with one leftover cent
			txs:  []*models.Transaction{tx("A", 10000)},
			want: map[string]int64{"A": 10000 - 3334, "B": -3333, "C": -3333},
		},
		{
			name: "settlement offsets debt",
			txs:  []*models.Transaction{tx("A", 9000)},
			settlements: []*models.Settlement{
				{GroupID: "g", FromUserID: "B", ToUserID: "A", Amount: models.FromCents(3000)},
			},
			want: map[string]int64{"A": 3000, "B": 0, "C": -3000},
		},
		{
			name: "split excluding the payer",
			// A pays 40.00, B and C owe it all
			txs: []*models.Transaction{tx("A", 4000,
				models.Split{MemberID: "B", Weight: 1},
				models.Split{MemberID: "C", Weight: 1},
			)},
			want: map[string]int64{"A": 4000, "B": -2000, "C": -2000},
		},
		{
			name:    "payer outside group",
			txs:     []*models.Transaction{tx("Z", 1000)},
			wantErr: models.ErrValidation,
		},
		{
			name: "split member outside group",
			txs: []*models.Transaction{tx("A", 1000,
				models.Split{MemberID: "Z", Weight: 1},
			)},
			wantErr: models.ErrValidation,
		},
		{
			name: "zero weight sum",
			txs: []*models.Transaction{tx("A", 1000,
				models.Split{MemberID: "A", Weight: 0},
				models.Split{MemberID: "B", Weight: 0},
			)},
			wantErr: models.ErrValidation,
		},
		{
			name: "oversized split weights rejected",
			// Weights this large would overflow the share products.
			txs: []*models.Transaction{tx("A", 10000,
				models.Split{MemberID: "A", Weight: 3_000_000_000_000_000_000},
				models.Split{MemberID: "B", Weight: 3_000_000_000_000_000_000},
			)},
			wantErr: models.ErrValidation,
		},
		{
			name:    "amount above the cap rejected",
			txs:     []*models.Transaction{tx("A", models.MaxCents+1)},
			wantErr: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GroupBalances(members, tt.txs, tt.settlements)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GroupBalances() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GroupBalances() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("GroupBalances() = %v, want %v", got, tt.want)
			}
			for id, cents := range tt.want {
				if got[id] != cents {
					t.Errorf("balance[%s] = %d, want %d", id, got[id], cents)
				}
			}
		})
	}
}

// The extremes of the valid ranges still divide exactly: the maximum
// amount against the maximum weight skew must conserve to the cent.
func TestGroupBalancesBoundaryWeights(t *testing.T) {
	members := []string{"A", "B"}
	txs := []*models.Transaction{
		tx("A", models.MaxCents,
			models.Split{MemberID: "A", Weight: models.MaxSplitWeight},
			models.Split{MemberID: "B", Weight: 1},
		),
	}

	balances, err := GroupBalances(members, txs, nil)
	if err != nil {
		t.Fatalf("GroupBalances() error = %v", err)
	}
	if sum := balances["A"] + balances["B"]; sum != 0 {
		t.Errorf("balances sum to %d cents, want 0", sum)
	}
	if balances["B"] > 0 {
		t.Errorf("balance[B] = %d, want a debt", balances["B"])
	}
}

// Conservation: for any sequence of appended transactions the balances sum
// to exactly zero cents.
func TestGroupBalancesConservation(t *testing.T) {
	members := []string{"alice", "bob", "carol", "dave"}
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		var txs []*models.Transaction
		n := 1 + rng.Intn(20)
		for i := 0; i < n; i++ {
			payer := members[rng.Intn(len(members))]
			amount := 1 + rng.Int63n(1_000_000)
			var splits []models.Split
			if rng.Intn(2) == 0 {
				for _, m := range members {
					if rng.Intn(3) > 0 {
						splits = append(splits, models.Split{MemberID: m, Weight: 1 + rng.Int63n(5)})
					}
				}
			}
			txs = append(txs, tx(payer, amount, splits...))
		}

		balances, err := GroupBalances(members, txs, nil)
		if err != nil {
			t.Fatalf("trial %d: GroupBalances() error = %v", trial, err)
		}

		var sum int64
		for _, b := range balances {
			sum += b
		}
		if sum != 0 {
			t.Fatalf("trial %d: balances sum to %d cents, want 0", trial, sum)
		}
	}
}

// Idempotence: computing balances twice over the same ledger gives
// identical output.
func TestGroupBalancesIdempotent(t *testing.T) {
	members := []string{"A", "B", "C"}
	txs := []*models.Transaction{
		tx("A", 9000),
		tx("B", 4500, models.Split{MemberID: "A", Weight: 2}, models.Split{MemberID: "C", Weight: 1}),
	}

	first, err := GroupBalances(members, txs, nil)
	if err != nil {
		t.Fatalf("GroupBalances() error = %v", err)
	}
	second, err := GroupBalances(members, txs, nil)
	if err != nil {
		t.Fatalf("GroupBalances() error = %v", err)
	}
	for id := range first {
		if first[id] != second[id] {
			t.Errorf("balance[%s] changed between runs: %d vs %d", id, first[id], second[id])
		}
	}
}

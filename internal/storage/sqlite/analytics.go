package sqlite

import (
	"context"
	"fmt"

	"splitbook/internal/models"
)

// MonthlyTotals aggregates a user's spending per calendar month ("2026-08"),
// oldest first.
func (s *SQLiteStore) MonthlyTotals(ctx context.Context, userID string) ([]models.PeriodTotal, error) {
	return s.periodTotals(ctx, userID, "%Y-%m")
}

// YearlyTotals aggregates a user's spending per calendar year ("2026"),
// oldest first.
func (s *SQLiteStore) YearlyTotals(ctx context.Context, userID string) ([]models.PeriodTotal, error) {
	return s.periodTotals(ctx, userID, "%Y")
}

func (s *SQLiteStore) periodTotals(ctx context.Context, userID, format string) ([]models.PeriodTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime(?, occurred_at, 'unixepoch') AS period, SUM(amount_cents), COUNT(*)
		 FROM transactions WHERE payer_id = ?
		 GROUP BY period ORDER BY period ASC`,
		format, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate period totals: %w", err)
	}
	defer rows.Close()

	var totals []models.PeriodTotal
	for rows.Next() {
		var t models.PeriodTotal
		if err := rows.Scan(&t.Period, &t.TotalCents, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan period total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate period totals: %w", err)
	}

	return totals, nil
}

// CategoryTotals aggregates a user's spending per category, largest first.
func (s *SQLiteStore) CategoryTotals(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents), COUNT(*)
		 FROM transactions WHERE payer_id = ?
		 GROUP BY category ORDER BY SUM(amount_cents) DESC, category ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category totals: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var t models.CategoryTotal
		if err := rows.Scan(&t.Category, &t.TotalCents, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return totals, nil
}

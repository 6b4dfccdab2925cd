package analytics

import (
	"context"

	"splitbook/internal/models"
	"splitbook/internal/storage"
)

// Service computes per-user insights from stored ledger data.
type Service struct {
	store storage.Store
}

// NewService creates an analytics Service.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// MonthlyTotals returns the user's spending per calendar month, oldest first.
func (s *Service) MonthlyTotals(ctx context.Context, userID string) ([]models.PeriodTotal, error) {
	return s.store.MonthlyTotals(ctx, userID)
}

// YearlyTotals returns the user's spending per calendar year, oldest first.
func (s *Service) YearlyTotals(ctx context.Context, userID string) ([]models.PeriodTotal, error) {
	return s.store.YearlyTotals(ctx, userID)
}

// CategoryTotals returns the user's spending per category, largest first.
func (s *Service) CategoryTotals(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	return s.store.CategoryTotals(ctx, userID)
}

// Anomalies flags the user's statistically unusual transactions. threshold
// <= 0 selects the default z-score cutoff.
func (s *Service) Anomalies(ctx context.Context, userID string, threshold float64) ([]Anomaly, error) {
	txs, err := s.store.ListTransactions(ctx, models.TransactionFilter{PayerID: userID})
	if err != nil {
		return nil, err
	}
	return DetectAnomalies(txs, threshold), nil
}

// Forecast extrapolates the user's next-month spending from their monthly
// history. ok is false with fewer than two months of data.
func (s *Service) Forecast(ctx context.Context, userID string) (cents int64, ok bool, err error) {
	totals, err := s.store.MonthlyTotals(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	cents, ok = ForecastNextMonth(totals)
	return cents, ok, nil
}

// Summary renders the user's plain-text spending report.
func (s *Service) Summary(ctx context.Context, userID string) (string, error) {
	txs, err := s.store.ListTransactions(ctx, models.TransactionFilter{PayerID: userID})
	if err != nil {
		return "", err
	}
	monthly, err := s.store.MonthlyTotals(ctx, userID)
	if err != nil {
		return "", err
	}
	byCategory, err := s.store.CategoryTotals(ctx, userID)
	if err != nil {
		return "", err
	}

	return SpendingSummary(SummaryInput{
		Transactions:  txs,
		MonthlyTotals: monthly,
		ByCategory:    byCategory,
	}), nil
}

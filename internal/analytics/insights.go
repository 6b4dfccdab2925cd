// Package analytics derives spending insights from the ledger: statistical
// outlier detection, a simple next-month forecast, and aggregate summaries.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"splitbook/internal/models"
)

// DefaultZThreshold is the z-score above which a transaction counts as an
// outlier.
const DefaultZThreshold = 2.0

// Anomaly is a transaction whose amount deviates unusually far from the
// user's mean spend.
type Anomaly struct {
	Transaction *models.Transaction
	ZScore      float64
}

// DetectAnomalies flags transactions whose amount z-score exceeds the
// threshold in absolute value. The standard deviation is the sample
// deviation, so fewer than two transactions (or zero variance) yields no
// anomalies. A non-positive threshold falls back to DefaultZThreshold.
func DetectAnomalies(txs []*models.Transaction, threshold float64) []Anomaly {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	if len(txs) < 2 {
		return nil
	}

	var sum float64
	for _, tx := range txs {
		sum += float64(tx.Amount.Cents)
	}
	mean := sum / float64(len(txs))

	var sq float64
	for _, tx := range txs {
		d := float64(tx.Amount.Cents) - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(txs)-1))
	if std == 0 {
		return nil
	}

	var anomalies []Anomaly
	for _, tx := range txs {
		z := (float64(tx.Amount.Cents) - mean) / std
		if math.Abs(z) > threshold {
			anomalies = append(anomalies, Anomaly{Transaction: tx, ZScore: z})
		}
	}
	return anomalies
}

// ForecastNextMonth fits a least-squares line through the per-month totals
// (oldest first) and extrapolates one period ahead. It needs at least two
// months of history; ok is false otherwise, and also when the trend
// extrapolates below zero.
func ForecastNextMonth(totals []models.PeriodTotal) (cents int64, ok bool) {
	n := len(totals)
	if n < 2 {
		return 0, false
	}

	// x is the month index 0..n-1, y the total in cents.
	var sumX, sumY, sumXY, sumXX float64
	for i, pt := range totals {
		x := float64(i)
		y := float64(pt.TotalCents)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	predicted := slope*fn + intercept
	if predicted < 0 {
		return 0, false
	}
	return int64(math.Round(predicted)), true
}

// SummaryInput bundles the figures SpendingSummary renders.
type SummaryInput struct {
	Transactions  []*models.Transaction
	MonthlyTotals []models.PeriodTotal
	ByCategory    []models.CategoryTotal
}

// SpendingSummary renders a short plain-text report: overall total, top
// category, average per transaction, anomaly count and the next-month
// forecast.
func SpendingSummary(in SummaryInput) string {
	if len(in.Transactions) == 0 {
		return "No expenses found to generate a summary."
	}

	var totalCents int64
	for _, tx := range in.Transactions {
		totalCents += tx.Amount.Cents
	}
	avgCents := totalCents / int64(len(in.Transactions))

	var b strings.Builder
	fmt.Fprintf(&b, "Your total recorded expenses are %s across %d transactions (about %s each).\n",
		models.FromCents(totalCents), len(in.Transactions), models.FromCents(avgCents))

	if len(in.ByCategory) > 0 {
		top := in.ByCategory[0]
		fmt.Fprintf(&b, "You spent the most on %q with a total of %s.\n",
			top.Category, models.FromCents(top.TotalCents))
	}

	if anomalies := DetectAnomalies(in.Transactions, DefaultZThreshold); len(anomalies) > 0 {
		maxCents := anomalies[0].Transaction.Amount.Cents
		for _, a := range anomalies[1:] {
			if a.Transaction.Amount.Cents > maxCents {
				maxCents = a.Transaction.Amount.Cents
			}
		}
		fmt.Fprintf(&b, "Anomaly detection: %d transaction(s) appear anomalous (up to %s).\n",
			len(anomalies), models.FromCents(maxCents))
	} else {
		b.WriteString("Anomaly detection: no significant anomalies detected.\n")
	}

	if predicted, ok := ForecastNextMonth(in.MonthlyTotals); ok {
		fmt.Fprintf(&b, "Forecast: based on your spending trend, next month's total is expected around %s.\n",
			models.FromCents(predicted))
	} else {
		b.WriteString("Forecast: not enough history to estimate next month's spending.\n")
	}

	return b.String()
}

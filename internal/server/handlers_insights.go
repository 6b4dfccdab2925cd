package server

import (
	"fmt"
	"net/http"
	"strconv"

	"splitbook/internal/models"
)

type periodTotalResponse struct {
	Period     string `json:"period"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

type categoryTotalResponse struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

type anomalyResponse struct {
	Expense expenseResponse `json:"expense"`
	ZScore  float64         `json:"z_score"`
}

type forecastResponse struct {
	Forecast      string `json:"forecast,omitempty"`
	ForecastCents int64  `json:"forecast_cents,omitempty"`
	EnoughData    bool   `json:"enough_data"`
}

func toPeriodTotals(totals []models.PeriodTotal) []periodTotalResponse {
	resp := make([]periodTotalResponse, 0, len(totals))
	for _, pt := range totals {
		resp = append(resp, periodTotalResponse{
			Period:     pt.Period,
			Total:      models.FromCents(pt.TotalCents).String(),
			TotalCents: pt.TotalCents,
			Count:      pt.Count,
		})
	}
	return resp
}

func (s *Server) handleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.insights.MonthlyTotals(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodTotals(totals))
}

func (s *Server) handleYearlyTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.insights.YearlyTotals(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodTotals(totals))
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.insights.CategoryTotals(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]categoryTotalResponse, 0, len(totals))
	for _, ct := range totals {
		resp = append(resp, categoryTotalResponse{
			Category:   ct.Category,
			Total:      models.FromCents(ct.TotalCents).String(),
			TotalCents: ct.TotalCents,
			Count:      ct.Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	threshold := 0.0
	if v := r.URL.Query().Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t <= 0 {
			writeError(w, fmt.Errorf("%w: invalid threshold %q", models.ErrValidation, v))
			return
		}
		threshold = t
	}

	anomalies, err := s.insights.Anomalies(r.Context(), userID(r.Context()), threshold)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]anomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		resp = append(resp, anomalyResponse{
			Expense: toExpenseResponse(a.Transaction),
			ZScore:  a.ZScore,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	cents, ok, err := s.insights.Forecast(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := forecastResponse{EnoughData: ok}
	if ok {
		resp.Forecast = models.FromCents(cents).String()
		resp.ForecastCents = cents
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.insights.Summary(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// Package server exposes the ledger over a JSON HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitbook/internal/analytics"
	"splitbook/internal/service"
)

// Server wires the service layer to HTTP routes.
type Server struct {
	auth     *service.AuthService
	ledger   *service.LedgerService
	groups   *service.GroupService
	insights *analytics.Service
}

// New creates a Server over the given services.
func New(auth *service.AuthService, ledger *service.LedgerService, groups *service.GroupService, insights *analytics.Service) *Server {
	return &Server{
		auth:     auth,
		ledger:   ledger,
		groups:   groups,
		insights: insights,
	}
}

// Handler builds the full route table with logging, CORS and metrics
// instrumentation applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, instrument(pattern, h))
	}
	authed := func(pattern string, h http.HandlerFunc) {
		route(pattern, s.requireAuth(h))
	}

	route("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	route("POST /api/auth/register", s.handleRegister)
	route("POST /api/auth/login", s.handleLogin)

	authed("POST /api/expenses", s.handleCreateExpense)
	authed("GET /api/expenses", s.handleListExpenses)
	authed("GET /api/expenses/{id}", s.handleGetExpense)
	authed("PATCH /api/expenses/{id}", s.handleUpdateExpense)
	authed("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	authed("POST /api/groups", s.handleCreateGroup)
	authed("GET /api/groups", s.handleListGroups)
	authed("GET /api/groups/{id}", s.handleGetGroup)
	authed("GET /api/groups/{id}/balances", s.handleGroupBalances)
	authed("GET /api/groups/{id}/settlement-plan", s.handleSettlementPlan)
	authed("POST /api/groups/{id}/settlements", s.handleRecordSettlement)

	authed("GET /api/insights/monthly", s.handleMonthlyTotals)
	authed("GET /api/insights/yearly", s.handleYearlyTotals)
	authed("GET /api/insights/categories", s.handleCategoryTotals)
	authed("GET /api/insights/anomalies", s.handleAnomalies)
	authed("GET /api/insights/forecast", s.handleForecast)
	authed("GET /api/insights/summary", s.handleSummary)

	return loggingMiddleware(corsMiddleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

package server

import (
	"fmt"
	"net/http"
	"strconv"

	"splitbook/internal/models"
)

type splitRequest struct {
	MemberID string `json:"member_id"`
	Weight   int64  `json:"weight"`
}

type createExpenseRequest struct {
	Amount      string         `json:"amount"`
	GroupID     string         `json:"group_id,omitempty"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	OccurredAt  int64          `json:"occurred_at,omitempty"`
	Splits      []splitRequest `json:"splits,omitempty"`
}

type updateExpenseRequest struct {
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	OccurredAt  *int64  `json:"occurred_at,omitempty"`
}

type expenseResponse struct {
	ID          string         `json:"id"`
	PayerID     string         `json:"payer_id"`
	GroupID     string         `json:"group_id,omitempty"`
	Amount      string         `json:"amount"`
	AmountCents int64          `json:"amount_cents"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	OccurredAt  int64          `json:"occurred_at"`
	CreatedAt   int64          `json:"created_at"`
	Splits      []splitRequest `json:"splits,omitempty"`
}

func toExpenseResponse(tx *models.Transaction) expenseResponse {
	resp := expenseResponse{
		ID:          tx.ID,
		PayerID:     tx.PayerID,
		GroupID:     tx.GroupID,
		Amount:      tx.Amount.String(),
		AmountCents: tx.Amount.Cents,
		Category:    tx.Category,
		Description: tx.Description,
		OccurredAt:  tx.OccurredAt,
		CreatedAt:   tx.CreatedAt,
	}
	for _, split := range tx.Splits {
		resp.Splits = append(resp.Splits, splitRequest{MemberID: split.MemberID, Weight: split.Weight})
	}
	return resp
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	tx := &models.Transaction{
		PayerID:     userID(r.Context()),
		GroupID:     req.GroupID,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	}
	for _, split := range req.Splits {
		tx.Splits = append(tx.Splits, models.Split{MemberID: split.MemberID, Weight: split.Weight})
	}

	if _, err := s.ledger.Append(r.Context(), tx); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(tx))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.Get(r.Context(), r.PathValue("id"), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(tx))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	upd := models.TransactionUpdate{
		Category:    req.Category,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	}
	if req.Amount != nil {
		amount, err := models.ParseMoney(*req.Amount)
		if err != nil {
			writeError(w, err)
			return
		}
		upd.Amount = &amount
	}

	id := r.PathValue("id")
	caller := userID(r.Context())
	if err := s.ledger.Update(r.Context(), id, caller, upd); err != nil {
		writeError(w, err)
		return
	}

	tx, err := s.ledger.Get(r.Context(), id, caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(tx))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Remove(r.Context(), r.PathValue("id"), userID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListExpenses lists the caller's own expenses, or a group's ledger
// when group_id is given and the caller is a member. Optional filters:
// category, from, to (inclusive Unix seconds).
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	caller := userID(r.Context())

	filter := models.TransactionFilter{Category: q.Get("category")}
	if v := q.Get("from"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid from timestamp %q", models.ErrValidation, v))
			return
		}
		filter.From = ts
	}
	if v := q.Get("to"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid to timestamp %q", models.ErrValidation, v))
			return
		}
		filter.To = ts
	}

	if groupID := q.Get("group_id"); groupID != "" {
		group, err := s.groups.GetGroup(r.Context(), groupID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !group.HasMember(caller) {
			writeError(w, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID))
			return
		}
		filter.GroupID = groupID
	} else {
		filter.PayerID = caller
	}

	txs, err := s.ledger.Query(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toExpenseResponse(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}

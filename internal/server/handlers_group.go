package server

import (
	"fmt"
	"net/http"

	"splitbook/internal/calculator"
	"splitbook/internal/models"
)

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{ID: g.ID, Name: g.Name, Members: g.Members, CreatedAt: g.CreatedAt}
}

type balanceEntry struct {
	MemberID     string `json:"member_id"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
}

type paymentResponse struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
}

type recordSettlementRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
}

type settlementResponse struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	FromUserID  string `json:"from_user_id"`
	ToUserID    string `json:"to_user_id"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	CreatedBy   string `json:"created_by"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// The creator is always a member.
	memberIDs := append([]string{userID(r.Context())}, req.MemberIDs...)
	group, err := s.groups.CreateGroup(r.Context(), req.Name, memberIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroupsForUser(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

// memberGroup loads the group and hides it from non-members.
func (s *Server) memberGroup(r *http.Request) (*models.Group, error) {
	group, err := s.groups.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID(r.Context())) {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, group.ID)
	}
	return group, nil
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.memberGroup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	group, err := s.memberGroup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	balances, err := s.groups.Balances(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Stable member order for the response.
	resp := make([]balanceEntry, 0, len(group.Members))
	for _, id := range group.Members {
		cents := balances[id]
		resp = append(resp, balanceEntry{
			MemberID:     id,
			BalanceCents: cents,
			Balance:      models.FromCents(cents).String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSettlementPlan(w http.ResponseWriter, r *http.Request) {
	group, err := s.memberGroup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := s.groups.PlanSettlement(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]paymentResponse, 0, len(plan))
	for _, p := range plan {
		resp = append(resp, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toPaymentResponse(p calculator.Payment) paymentResponse {
	return paymentResponse{
		FromMemberID: p.FromMemberID,
		ToMemberID:   p.ToMemberID,
		AmountCents:  p.AmountCents,
		Amount:       models.FromCents(p.AmountCents).String(),
	}
}

func (s *Server) handleRecordSettlement(w http.ResponseWriter, r *http.Request) {
	group, err := s.memberGroup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req recordSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	settlement := &models.Settlement{
		GroupID:    group.ID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     amount,
		Note:       req.Note,
		CreatedBy:  userID(r.Context()),
	}
	if err := s.groups.RecordSettlement(r.Context(), settlement); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, settlementResponse{
		ID:          settlement.ID,
		GroupID:     settlement.GroupID,
		FromUserID:  settlement.FromUserID,
		ToUserID:    settlement.ToUserID,
		Amount:      settlement.Amount.String(),
		AmountCents: settlement.Amount.Cents,
		Note:        settlement.Note,
		CreatedAt:   settlement.CreatedAt,
		CreatedBy:   settlement.CreatedBy,
	})
}

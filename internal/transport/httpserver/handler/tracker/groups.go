package tracker

import (
	"net/http"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"github.com/shopspring/decimal"
)

type createGroupRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	Currency      string          `json:"currency"`
	IsActive      *bool           `json:"is_active"`
}

type updateGroupRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount"`
	Currency      *string          `json:"currency"`
	IsActive      *bool            `json:"is_active"`
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Tracker.ListGroups(r.Context())
	if err != nil {
		h.fail(w, "groups.list: list failed", err)
		return
	}
	if groups == nil {
		groups = []trackerdomain.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	group, err := h.Tracker.GetGroup(r.Context(), id)
	if err != nil {
		h.fail(w, "groups.get: get failed", err, "group_id", id)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	group, err := h.Tracker.CreateGroup(r.Context(), trackerdomain.CreateGroupInput{
		Name:          req.Name,
		Description:   req.Description,
		MonthlyAmount: req.MonthlyAmount,
		Currency:      req.Currency,
		IsActive:      req.IsActive,
	})
	if err != nil {
		h.fail(w, "groups.create: create failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	group, err := h.Tracker.UpdateGroup(r.Context(), id, trackerdomain.GroupPatch{
		Name:          req.Name,
		Description:   req.Description,
		MonthlyAmount: req.MonthlyAmount,
		Currency:      req.Currency,
		IsActive:      req.IsActive,
	})
	if err != nil {
		h.fail(w, "groups.update: update failed", err, "group_id", id)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Tracker.DeleteGroup(r.Context(), id); err != nil {
		h.fail(w, "groups.delete: delete failed", err, "group_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

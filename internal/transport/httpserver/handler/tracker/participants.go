package tracker

import (
	"net/http"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	commonhandler "contribution-tracker-go/internal/transport/httpserver/handler/common"
	"github.com/shopspring/decimal"
)

type createParticipantRequest struct {
	GroupID             int64           `json:"group_id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	JoinedDate          string          `json:"joined_date"`
	Status              string          `json:"status"`
}

type updateParticipantRequest struct {
	GroupID             *int64           `json:"group_id"`
	Name                *string          `json:"name"`
	Email               *string          `json:"email"`
	Phone               *string          `json:"phone"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution"`
	JoinedDate          *string          `json:"joined_date"`
	Status              *string          `json:"status"`
}

func (h *Handlers) ListParticipants(w http.ResponseWriter, r *http.Request) {
	groupID, err := commonhandler.QueryID(r, "group_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	participants, err := h.Tracker.ListParticipants(r.Context(), trackerdomain.ParticipantFilter{GroupID: groupID})
	if err != nil {
		h.fail(w, "participants.list: list failed", err)
		return
	}
	if participants == nil {
		participants = []trackerdomain.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

func (h *Handlers) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	participant, err := h.Tracker.GetParticipant(r.Context(), id)
	if err != nil {
		h.fail(w, "participants.get: get failed", err, "participant_id", id)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (h *Handlers) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req createParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	participant, err := h.Tracker.CreateParticipant(r.Context(), trackerdomain.CreateParticipantInput{
		GroupID:             req.GroupID,
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		MonthlyContribution: req.MonthlyContribution,
		JoinedDate:          req.JoinedDate,
		Status:              trackerdomain.Status(req.Status),
	})
	if err != nil {
		h.fail(w, "participants.create: create failed", err, "group_id", req.GroupID)
		return
	}
	writeJSON(w, http.StatusCreated, participant)
}

func (h *Handlers) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	patch := trackerdomain.ParticipantPatch{
		GroupID:             req.GroupID,
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		MonthlyContribution: req.MonthlyContribution,
		JoinedDate:          req.JoinedDate,
	}
	if req.Status != nil {
		status := trackerdomain.Status(*req.Status)
		patch.Status = &status
	}

	participant, err := h.Tracker.UpdateParticipant(r.Context(), id, patch)
	if err != nil {
		h.fail(w, "participants.update: update failed", err, "participant_id", id)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (h *Handlers) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Tracker.DeleteParticipant(r.Context(), id); err != nil {
		h.fail(w, "participants.delete: delete failed", err, "participant_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

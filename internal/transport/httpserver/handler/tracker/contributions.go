package tracker

import (
	"net/http"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	commonhandler "contribution-tracker-go/internal/transport/httpserver/handler/common"
	"github.com/shopspring/decimal"
)

// group_id is accepted for client compatibility; the stored group always
// comes from the participant.
type createContributionRequest struct {
	ParticipantID int64           `json:"participant_id"`
	GroupID       *int64          `json:"group_id"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
	Date          string          `json:"date"`
}

type updateContributionRequest struct {
	ParticipantID *int64           `json:"participant_id"`
	GroupID       *int64           `json:"group_id"`
	Amount        *decimal.Decimal `json:"amount"`
	Note          *string          `json:"note"`
	Date          *string          `json:"date"`
}

func (h *Handlers) ListContributions(w http.ResponseWriter, r *http.Request) {
	groupID, err := commonhandler.QueryID(r, "group_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	participantID, err := commonhandler.QueryID(r, "participant_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	contributions, err := h.Tracker.ListContributions(r.Context(), trackerdomain.ContributionFilter{
		GroupID:       groupID,
		ParticipantID: participantID,
	})
	if err != nil {
		h.fail(w, "contributions.list: list failed", err)
		return
	}
	if contributions == nil {
		contributions = []trackerdomain.Contribution{}
	}
	writeJSON(w, http.StatusOK, contributions)
}

func (h *Handlers) GetContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	contribution, err := h.Tracker.GetContribution(r.Context(), id)
	if err != nil {
		h.fail(w, "contributions.get: get failed", err, "contribution_id", id)
		return
	}
	writeJSON(w, http.StatusOK, contribution)
}

func (h *Handlers) CreateContribution(w http.ResponseWriter, r *http.Request) {
	var req createContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	contribution, err := h.Tracker.CreateContribution(r.Context(), trackerdomain.CreateContributionInput{
		ParticipantID: req.ParticipantID,
		Amount:        req.Amount,
		Note:          req.Note,
		Date:          req.Date,
	})
	if err != nil {
		h.fail(w, "contributions.create: create failed", err, "participant_id", req.ParticipantID)
		return
	}
	writeJSON(w, http.StatusCreated, contribution)
}

func (h *Handlers) UpdateContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	contribution, err := h.Tracker.UpdateContribution(r.Context(), id, trackerdomain.ContributionPatch{
		ParticipantID: req.ParticipantID,
		Amount:        req.Amount,
		Note:          req.Note,
		Date:          req.Date,
	})
	if err != nil {
		h.fail(w, "contributions.update: update failed", err, "contribution_id", id)
		return
	}
	writeJSON(w, http.StatusOK, contribution)
}

func (h *Handlers) DeleteContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Tracker.DeleteContribution(r.Context(), id); err != nil {
		h.fail(w, "contributions.delete: delete failed", err, "contribution_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

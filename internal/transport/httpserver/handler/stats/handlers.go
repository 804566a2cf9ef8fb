package stats

import (
	"net/http"

	analyticsdomain "contribution-tracker-go/internal/domain/analytics"
	commonhandler "contribution-tracker-go/internal/transport/httpserver/handler/common"
	"contribution-tracker-go/pkg/logger"
)

type Handlers struct {
	Analytics *analyticsdomain.Service
	log       logger.Logger
}

func New(analytics *analyticsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Analytics: analytics,
		log:       log,
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

// warnSkipped logs results computed without some unreadable records.
func (h *Handlers) warnSkipped(op string, quality analyticsdomain.DataQuality, args ...any) {
	if quality.Skipped == 0 {
		return
	}
	h.log.Warn(op, append([]any{"skipped", quality.Skipped}, args...)...)
}

func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	commonhandler.WriteServiceError(w, h.log, op, err, args...)
}

// scopeFromQuery builds a scope from the optional group_id query parameter.
func scopeFromQuery(w http.ResponseWriter, r *http.Request) (analyticsdomain.Scope, bool) {
	groupID, err := commonhandler.QueryID(r, "group_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return analyticsdomain.Scope{}, false
	}
	return analyticsdomain.Scope{GroupID: groupID}, true
}

func groupID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := commonhandler.PathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, false
	}
	return id, true
}

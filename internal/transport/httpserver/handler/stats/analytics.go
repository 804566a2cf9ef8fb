package stats

import (
	"net/http"

	analyticsdomain "contribution-tracker-go/internal/domain/analytics"
	commonhandler "contribution-tracker-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		h.fail(w, "stats.dashboard: build failed", err)
		return
	}
	h.warnSkipped("stats.dashboard: skipped contributions", dashboard.DataQuality)
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handlers) AllGroupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.AllGroupStats(r.Context())
	if err != nil {
		h.fail(w, "stats.groups: build failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) Pending(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromQuery(w, r)
	if !ok {
		return
	}
	h.writePending(w, r, scope)
}

func (h *Handlers) Trend(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromQuery(w, r)
	if !ok {
		return
	}
	h.writeTrend(w, r, scope)
}

func (h *Handlers) GroupStats(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}
	stats, err := h.Analytics.GroupStats(r.Context(), id)
	if err != nil {
		h.fail(w, "stats.group: build failed", err, "group_id", id)
		return
	}
	h.warnSkipped("stats.group: skipped contributions", stats.DataQuality, "group_id", id)
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) GroupPending(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}
	h.writePending(w, r, analyticsdomain.GroupScope(id))
}

func (h *Handlers) GroupTrend(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}
	h.writeTrend(w, r, analyticsdomain.GroupScope(id))
}

func (h *Handlers) GroupHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}
	history, err := h.Analytics.History(r.Context(), id)
	if err != nil {
		h.fail(w, "stats.history: build failed", err, "group_id", id)
		return
	}
	h.warnSkipped("stats.history: skipped contributions", history.DataQuality, "group_id", id)
	writeJSON(w, http.StatusOK, history)
}

func (h *Handlers) MonthOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}
	months, err := h.Analytics.MonthOptions(r.Context(), id)
	if err != nil {
		h.fail(w, "stats.months: build failed", err, "group_id", id)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

// MonthBreakdown serves ?month=YYYY-MM, defaulting to the current month.
func (h *Handlers) MonthBreakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}
	month, err := commonhandler.QueryMonth(r, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	breakdown, err := h.Analytics.MonthBreakdown(r.Context(), id, month)
	if err != nil {
		h.fail(w, "stats.breakdown: build failed", err, "group_id", id)
		return
	}
	h.warnSkipped("stats.breakdown: skipped contributions", breakdown.DataQuality, "group_id", id)
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *Handlers) writePending(w http.ResponseWriter, r *http.Request, scope analyticsdomain.Scope) {
	report, err := h.Analytics.Pending(r.Context(), scope)
	if err != nil {
		h.fail(w, "stats.pending: build failed", err)
		return
	}
	h.warnSkipped("stats.pending: skipped contributions", report.DataQuality)
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) writeTrend(w http.ResponseWriter, r *http.Request, scope analyticsdomain.Scope) {
	trend, err := h.Analytics.Trend(r.Context(), scope)
	if err != nil {
		h.fail(w, "stats.trend: build failed", err)
		return
	}
	h.warnSkipped("stats.trend: skipped contributions", trend.DataQuality)
	writeJSON(w, http.StatusOK, trend)
}

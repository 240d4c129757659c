package handler

import (
	"net/http"

	"github.com/manaworks/jobportal/internal/service"
)

// StatsHandler serves visit analytics.
type StatsHandler struct {
	visits *service.VisitLedger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(visits *service.VisitLedger) *StatsHandler {
	return &StatsHandler{visits: visits}
}

// Site returns total visits, unique visitors and the active posting count.
// GET /api/stats
func (h *StatsHandler) Site(w http.ResponseWriter, r *http.Request) {
	h.visits.Record(r.Context(), clientIP(r), userAgent(r), nil)

	stats, err := h.visits.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Job returns the view count of one posting. Unknown ids report zero.
// GET /api/stats/jobs/{jobId}
func (h *StatsHandler) Job(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	views, err := h.visits.ViewsForJob(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load job stats: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, views)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/manaworks/jobportal/internal/model"
	"github.com/manaworks/jobportal/internal/server/middleware"
	"github.com/manaworks/jobportal/internal/service"
)

// JobHandler serves job postings and their lookup endpoints.
type JobHandler struct {
	jobs   *service.JobService
	visits *service.VisitLedger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService, visits *service.VisitLedger) *JobHandler {
	return &JobHandler{jobs: jobs, visits: visits}
}

// Create stores a posting owned by the authenticated admin.
// POST /api/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var in model.JobInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validateJobInput(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobs.Create(r.Context(), adminID, in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create job: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// List returns every active posting, most recent first.
// GET /api/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	h.visits.Record(r.Context(), clientIP(r), userAgent(r), nil)

	jobs, err := h.jobs.ListActive(r.Context(), pageFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list jobs: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Get returns one active posting. The view is recorded even when the
// posting turns out not to exist.
// GET /api/jobs/{jobId}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}
	h.visits.Record(r.Context(), clientIP(r), userAgent(r), &id)

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		writeJobError(w, err, "Failed to get job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Update applies a partial update to a posting owned by the caller.
// PUT /api/jobs/{jobId}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	id, ok := jobIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	var patch model.JobPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validateJobPatch(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobs.Update(r.Context(), id, adminID, patch)
	if err != nil {
		writeJobError(w, err, "Failed to update job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Delete deactivates a posting owned by the caller. The row is kept.
// DELETE /api/jobs/{jobId}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	id, ok := jobIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	if err := h.jobs.Deactivate(r.Context(), id, adminID); err != nil {
		writeJobError(w, err, "Failed to delete job")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Job deleted successfully"})
}

// Search filters active postings by text, experience band and location.
// GET /api/search?q=&years=&location=
func (h *JobHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.visits.Record(r.Context(), clientIP(r), userAgent(r), nil)

	filter := model.SearchFilter{
		Query:    queryString(r, "q"),
		Years:    queryString(r, "years"),
		Location: queryString(r, "location"),
	}
	jobs, err := h.jobs.Search(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search jobs: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Years lists the distinct experience bands of active postings.
// GET /api/years
func (h *JobHandler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.jobs.DistinctYears(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list years: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, years)
}

// Locations lists the distinct locations of active postings.
// GET /api/locations
func (h *JobHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.jobs.DistinctLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list locations: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

func writeJobError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeError(w, http.StatusInternalServerError, fallback+": "+err.Error())
}

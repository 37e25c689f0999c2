package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/service"
)

// JobHandler exposes the jobs side of the marketplace. Browse endpoints are
// public; posting and managing run behind the employer gate, applying behind
// the worker gate — the router wires that, not the handler.
type JobHandler struct {
	jobs   *service.JobService
	logger *slog.Logger
}

func NewJobHandler(jobs *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

// HandleBrowse lists open jobs.
//
//	GET /api/jobs?city=Lahore&q=electrician
func (h *JobHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.Browse(r.Context(), service.BrowseJobsInput{
		City:   r.URL.Query().Get("city"),
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// HandleCities lists cities with open jobs, for the browse filter dropdown.
//
//	GET /api/jobs/cities
func (h *JobHandler) HandleCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.jobs.Cities(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

// HandleGet returns one job.
//
//	GET /api/jobs/{jobID}
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// HandlePost creates a job owned by the signed-in employer.
//
//	POST /api/employer/jobs
func (h *JobHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in service.PostJobInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	job, err := h.jobs.Post(r.Context(), principal.UserID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// HandleListMine lists the signed-in employer's jobs, any status.
//
//	GET /api/employer/jobs
func (h *JobHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	jobs, err := h.jobs.ListMine(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// HandleApply files the signed-in worker's application to a job.
//
//	POST /api/worker/jobs/{jobID}/apply
//	{"message": "..."}
func (h *JobHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	app, err := h.jobs.Apply(r.Context(), principal.UserID, chi.URLParam(r, "jobID"), in.Message)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// HandleApplications lists a job's applications for its owning employer.
//
//	GET /api/employer/jobs/{jobID}/applications
func (h *JobHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	apps, err := h.jobs.Applications(r.Context(), principal.UserID, chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleDecide records accept/reject on one application.
//
//	POST /api/employer/applications/{applicationID}/decide
//	{"accept": true}
func (h *JobHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	app, err := h.jobs.Decide(r.Context(), principal.UserID,
		chi.URLParam(r, "applicationID"), in.Accept)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// HandleClose takes the employer's job off the board.
//
//	POST /api/employer/jobs/{jobID}/close
func (h *JobHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.jobs.Close(r.Context(), principal.UserID, chi.URLParam(r, "jobID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "job closed"})
}

// HandleMarkFilled flags the employer's job as filled.
//
//	POST /api/employer/jobs/{jobID}/filled
func (h *JobHandler) HandleMarkFilled(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.jobs.MarkFilled(r.Context(), principal.UserID, chi.URLParam(r, "jobID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "job marked as filled"})
}

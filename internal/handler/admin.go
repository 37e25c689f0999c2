package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/service"
)

// AdminHandler exposes the admin dashboard's read views: the user partitions
// and every posting regardless of status. All routes run behind the admin
// gate; the handler itself never re-checks the role.
type AdminHandler struct {
	auth   *service.AuthService
	jobs   *service.JobService
	gigs   *service.GigService
	logger *slog.Logger
}

func NewAdminHandler(
	authSvc *service.AuthService,
	jobs *service.JobService,
	gigs *service.GigService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{auth: authSvc, jobs: jobs, gigs: gigs, logger: logger}
}

// HandleListUsers lists one partition's accounts.
//
//	GET /api/admin/users/{role}
//
// The role comes from the URL, not the session: admins browse workers and
// employers, and the admin partition itself.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, h.logger,
			apperror.ValidationFailed("role must be worker, employer, or admin", "role"))
		return
	}

	users, err := h.auth.ListUsers(r.Context(), role)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetUser returns one account from a partition.
//
//	GET /api/admin/users/{role}/{userID}
func (h *AdminHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, h.logger,
			apperror.ValidationFailed("role must be worker, employer, or admin", "role"))
		return
	}

	user, err := h.auth.GetUser(r.Context(), role, chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleListJobs lists every job posting, any status.
//
//	GET /api/admin/jobs
func (h *AdminHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// HandleListGigs lists every gig posting, any status.
//
//	GET /api/admin/gigs
func (h *AdminHandler) HandleListGigs(w http.ResponseWriter, r *http.Request) {
	gigs, err := h.gigs.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, gigs)
}

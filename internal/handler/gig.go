package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/service"
)

// GigHandler exposes the gigs side of the marketplace, mirroring JobHandler.
type GigHandler struct {
	gigs   *service.GigService
	logger *slog.Logger
}

func NewGigHandler(gigs *service.GigService, logger *slog.Logger) *GigHandler {
	return &GigHandler{gigs: gigs, logger: logger}
}

// HandleBrowse lists open gigs.
//
//	GET /api/gigs?city=Lahore&q=wiring
func (h *GigHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	gigs, err := h.gigs.Browse(r.Context(), service.BrowseGigsInput{
		City:   r.URL.Query().Get("city"),
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, gigs)
}

// HandleCities lists cities with open gigs.
//
//	GET /api/gigs/cities
func (h *GigHandler) HandleCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.gigs.Cities(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

// HandleGet returns one gig.
//
//	GET /api/gigs/{gigID}
func (h *GigHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	gig, err := h.gigs.Get(r.Context(), chi.URLParam(r, "gigID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// HandlePost creates a gig owned by the signed-in employer.
//
//	POST /api/employer/gigs
func (h *GigHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in service.PostGigInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	gig, err := h.gigs.Post(r.Context(), principal.UserID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, gig)
}

// HandleListMine lists the signed-in employer's gigs, any status.
//
//	GET /api/employer/gigs
func (h *GigHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	gigs, err := h.gigs.ListMine(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, gigs)
}

// HandleApply files the signed-in worker's bid on a gig.
//
//	POST /api/worker/gigs/{gigID}/apply
//	{"proposedPrice": 8000, "remarks": "..."}
func (h *GigHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in service.ApplyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	app, err := h.gigs.Apply(r.Context(), principal.UserID, chi.URLParam(r, "gigID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// HandleApplications lists a gig's bids for its owning employer.
//
//	GET /api/employer/gigs/{gigID}/applications
func (h *GigHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	apps, err := h.gigs.Applications(r.Context(), principal.UserID, chi.URLParam(r, "gigID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleDecide records accept/reject on one bid. Accepting moves the gig to
// in-progress.
//
//	POST /api/employer/gig-applications/{applicationID}/decide
//	{"accept": true}
func (h *GigHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	app, err := h.gigs.Decide(r.Context(), principal.UserID,
		chi.URLParam(r, "applicationID"), in.Accept)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// HandleComplete marks an in-progress gig as done.
//
//	POST /api/employer/gigs/{gigID}/complete
func (h *GigHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.gigs.Complete(r.Context(), principal.UserID, chi.URLParam(r, "gigID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "gig completed"})
}

// HandleClose takes the employer's gig off the board.
//
//	POST /api/employer/gigs/{gigID}/close
func (h *GigHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.gigs.Close(r.Context(), principal.UserID, chi.URLParam(r, "gigID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "gig closed"})
}

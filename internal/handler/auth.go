package handler

import (
	"log/slog"
	"net/http"

	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/service"
)

// sessionMaxAge matches the token TTL so the cookie and the token it carries
// expire together.
const sessionMaxAge = 24 * 60 * 60

// AuthHandler exposes registration, login, logout and the current session.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

// HandleRegister creates an account and signs the caller in.
//
//	POST /auth/register
//	{"name": "...", "email": "...", "phone": "...", "cnic": "...",
//	 "password": "...", "role": "worker", "skills": ["..."]}
//
// On success the session cookie is set alongside the 201 — registering IS
// logging in; there is no separate verification step.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, sessionMaxAge)
	writeJSON(w, http.StatusCreated, res.User)
}

// HandleLogin authenticates against one role partition and starts a session.
//
//	POST /auth/login
//	{"email": "...", "password": "...", "role": "worker"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), in.Email, in.Password, in.Role)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, sessionMaxAge)
	writeJSON(w, http.StatusOK, res.User)
}

// HandleLogout ends the session by deleting the cookie. Idempotent: logging
// out twice, or with no session at all, still returns 200.
//
//	POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the account behind the current session.
//
//	GET /api/me
//
// Runs behind RequireAuth, so a principal is always present. A valid token
// whose record has since vanished yields 404, which clients treat as a dead
// session.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.auth.GetUser(r.Context(), principal.Role, principal.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile lets the signed-in worker edit their profile.
//
//	PUT /api/worker/profile
//	{"availability": "busy", "hourlyRate": 1500, "skills": ["..."]}
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var in service.UpdateWorkerProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.UpdateWorkerProfile(r.Context(), principal.UserID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

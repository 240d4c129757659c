package handler

import (
	"errors"
	"net/http"

	"github.com/manaworks/jobportal/internal/model"
	"github.com/manaworks/jobportal/internal/server/middleware"
	"github.com/manaworks/jobportal/internal/service"
)

// AdminHandler serves the session endpoints.
type AdminHandler struct {
	auth   *service.AuthService
	visits *service.VisitLedger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(auth *service.AuthService, visits *service.VisitLedger) *AdminHandler {
	return &AdminHandler{auth: auth, visits: visits}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AdminID     int64  `json:"admin_id"`
	ExpiresIn   int    `json:"expires_in"`
}

type verifyResponse struct {
	Valid   bool  `json:"valid"`
	AdminID int64 `json:"admin_id"`
}

// Login exchanges admin credentials for a session token.
// POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.visits.Record(r.Context(), clientIP(r), userAgent(r), nil)

	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, admin, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Authentication error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		AdminID:     admin.ID,
		ExpiresIn:   int(h.auth.Sessions().TTL().Seconds()),
	})
}

// Logout revokes the presented token. It succeeds whether or not the token
// was valid.
// POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		h.auth.Logout(token)
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Logged out successfully"})
}

// Verify reports whether the presented token is live.
// GET /api/admin/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.auth.Verify(middleware.TokenFromRequest(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, AdminID: adminID})
}

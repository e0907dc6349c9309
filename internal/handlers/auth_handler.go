package handlers

import (
	"net/http"

	"familyhub/internal/security"
	"familyhub/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Register handles account creation. A session is issued on success so a
// fresh registration is immediately logged in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password, req.DisplayName, req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	session, err := h.authService.CreateSession(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles credential verification and session issuance
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, user)
}

// Logout destroys the caller's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r))
	w.WriteHeader(http.StatusOK)
}

// CurrentUser returns the authenticated user for the session cookie, or 401
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	user, err := h.authService.ValidateSession(cookie.Value)
	if err != nil {
		http.SetCookie(w, security.CreateDeleteCookie(r))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset starts the reset flow. It always answers 200 so the
// endpoint cannot be used to probe for accounts.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type passwordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmPasswordReset completes the reset flow with a valid token
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

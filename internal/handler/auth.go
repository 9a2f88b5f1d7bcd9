package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/service"
)

// AuthHandler serves signup, login, logout and the current-user lookup.
//
// Successful signup and login return the token in the body (for API
// clients, which send it back as "Authorization: Bearer") and also set it
// as an HttpOnly cookie (for browsers).
type AuthHandler struct {
	auth         *service.AuthService
	tokenTTL     time.Duration
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. tokenTTL sets the cookie lifetime
// and should match the TokenService. secureCookie marks the cookie HTTPS-only.
func NewAuthHandler(svc *service.AuthService, tokenTTL time.Duration, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         svc,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// HandleSignup registers an account.
//
// HTTP: POST /api/signup
// REQUEST BODY: {"email": "a@b.com", "password": "..."}
// RESPONSE: 201 {"id": 1, "email": "a@b.com", "token": "..."}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token, int(h.tokenTTL.Seconds()))
	writeJSON(w, http.StatusCreated, authResponse{
		ID:    result.User.ID,
		Email: result.User.Email,
		Token: result.Token,
	})
}

// HandleLogin exchanges credentials for a token.
//
// HTTP: POST /api/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token, int(h.tokenTTL.Seconds()))
	writeJSON(w, http.StatusOK, authResponse{
		ID:    result.User.ID,
		Email: result.User.Email,
		Token: result.Token,
	})
}

// HandleLogout clears the token cookie.
//
// HTTP: POST /api/logout
//
// Tokens are stateless, so a Bearer token stays valid until it expires;
// logout only affects browsers relying on the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user. The password hash is never
// serialized.
//
// HTTP: GET /api/me (RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		h.logger.Warn("HandleMe: lookup failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setTokenCookie writes the session cookie. maxAge -1 deletes it.
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

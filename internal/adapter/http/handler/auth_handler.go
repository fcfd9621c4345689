package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
)

// AuthHandler handles login and token introspection. Principals come from
// configuration; there is no user signup surface.
type AuthHandler struct {
	jwtManager  *auth.JWTManager
	credentials *auth.CredentialStore
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(jwtManager *auth.JWTManager, credentials *auth.CredentialStore) *AuthHandler {
	return &AuthHandler{
		jwtManager:  jwtManager,
		credentials: credentials,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", "")
		return
	}

	user, err := h.credentials.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, expiresAt, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.UserFromDomain(user),
	})
}

// GetCurrentUser handles GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, mapDomainError(domain.ErrUnauthorized), "not authenticated", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/folium-app/folium-core/internal/auth"
)

// refreshTokenHeader carries the refresh token on POST /auth/refresh.
// The token rides in a header, not the body, so request logs and body
// captures never contain it.
const refreshTokenHeader = "Refresh-Token"

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// loginRequest is the request body for POST /auth/token.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates a new account and returns its public fields with
// the initial access token and the one-time-disclosed refresh token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	newUser, err := s.auth.Register(r.Context(), req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUser)
}

// handleLogin authenticates a username/password pair and returns a fresh
// access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// handleRefresh exchanges the Refresh-Token header value for a new access
// token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get(refreshTokenHeader)
	if refreshToken == "" {
		writeBadRequest(w, "missing Refresh-Token header")
		return
	}

	token, err := s.auth.Refresh(r.Context(), refreshToken)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// handleCurrentUser returns the public fields of the authenticated account.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

// writeAuthError maps auth service errors to HTTP responses. Each sentinel
// gets a distinct status; anything unrecognised is a storage or crypto
// failure and reports 500 without detail.
func (s *Server) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeBadRequest(w, err.Error())
	case errors.Is(err, auth.ErrDuplicateUser):
		writeConflict(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeUnauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenInvalid):
		writeUnauthorized(w, err.Error())
	case errors.Is(err, auth.ErrUserDisabled):
		writeUnauthorized(w, err.Error())
	default:
		s.logger.Error("auth operation failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}

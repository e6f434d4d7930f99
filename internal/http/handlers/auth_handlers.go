package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/auth"
	mw "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/middleware"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

const (
	msgLoginOK       = "Login successful!"
	msgLoginFailed   = "Login failed. Please try again."
	msgUserNotFound  = "User not found"
	msgInvalidPass   = "Invalid password"
	msgSignupOK      = "Account created successfully!"
	msgSignupFailed  = "Signup failed. Please try again."
	msgAlreadyExists = "User with this email already exists"
	msgLoggedOut     = "Logged out successfully"
)

func failure(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, MessageResult{Message: message, Notification: notify("error", message)})
}

// SignupHandler godoc
// @Summary Create a user account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body SignupRequest true "New user"
// @Success 201 {object} MessageResult
// @Failure 400 {object} MessageResult
// @Failure 409 {object} MessageResult
// @Failure 503 {object} MessageResult
// @Router /signup [post]
func (s *Server) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := readJSON(w, r, &req); err != nil {
		failure(w, http.StatusBadRequest, "invalid input")
		return
	}

	err := s.auth.Signup(r.Context(), auth.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	switch {
	case errors.Is(err, auth.ErrInvalidSignup):
		failure(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrAlreadyExists):
		failure(w, http.StatusConflict, msgAlreadyExists)
		return
	case errors.Is(err, auth.ErrTransient):
		failure(w, http.StatusServiceUnavailable, msgSignupFailed)
		return
	case err != nil:
		s.logger.Error("signup failed", zap.Error(err))
		failure(w, http.StatusInternalServerError, msgSignupFailed)
		return
	}

	_ = writeJSON(w, http.StatusCreated, MessageResult{
		Success:      true,
		Message:      msgSignupOK,
		Notification: notify("success", msgSignupOK),
	})
}

// LoginHandler godoc
// @Summary Authenticate by email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "email and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} MessageResult
// @Failure 401 {object} MessageResult "Invalid password"
// @Failure 404 {object} MessageResult "User not found"
// @Failure 503 {object} MessageResult
// @Router /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		failure(w, http.StatusBadRequest, "invalid input")
		return
	}

	sess, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		failure(w, http.StatusNotFound, msgUserNotFound)
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		failure(w, http.StatusUnauthorized, msgInvalidPass)
		return
	case errors.Is(err, auth.ErrTransient):
		failure(w, http.StatusServiceUnavailable, msgLoginFailed)
		return
	case err != nil:
		s.logger.Error("login failed", zap.Error(err))
		failure(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	_ = writeJSON(w, http.StatusOK, LoginResult{
		Token:        token,
		User:         sess,
		Notification: notify("success", msgLoginOK),
	})
}

// LogoutHandler godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResult
// @Failure 401 {string} string "Unauthorized"
// @Router /logout [post]
// @Security BearerAuth
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), mw.SessionIDFrom(r.Context())); err != nil {
		s.logger.Warn("failed to clear session", zap.Error(err))
	}

	_ = writeJSON(w, http.StatusOK, MessageResult{
		Success:      true,
		Message:      msgLoggedOut,
		Notification: notify("info", msgLoggedOut),
	})
}

// ProfileHandler godoc
// @Summary Current user and permissions
// @Tags auth
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /profile [get]
// @Security BearerAuth
func (s *Server) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := mw.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_ = writeJSON(w, http.StatusOK, ProfileResponse{
		User:        sess,
		Permissions: sess.Role.Permissions(),
		CanWrite:    sess.Role.CanWrite(),
	})
}

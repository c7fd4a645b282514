package handler

import (
	"net/http"

	"go.uber.org/zap"

	"feedbackhub/internal/model"
	"feedbackhub/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

// Register handles POST /auth/register
//
//	@Summary	Register with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.RegisterRequest	true	"Credentials"
//	@Success	200		{object}	model.AuthResponse
//	@Failure	400		{object}	middleware.ErrorBody
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Login handles POST /auth/login
//
//	@Summary	Log in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.LoginRequest	true	"Credentials"
//	@Success	200		{object}	model.AuthResponse
//	@Failure	400		{object}	middleware.ErrorBody
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Google handles POST /auth/google
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req model.GoogleLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authSvc.GoogleLogin(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest/middleware"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	middleware.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	middleware.WriteError(w, r, status, message)
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, r, http.StatusBadRequest, "Invalid request body")
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeServiceError maps service errors to their status; anything else is
// logged and hidden behind a generic 500
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeError(w, r, statusFor(svcErr), svcErr.Message)
		return
	}
	logger.Error("request failed",
		zap.String("requestId", middleware.GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "Internal server error")
}

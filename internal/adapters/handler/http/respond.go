package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskward/api/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors onto status codes. Anything
// unrecognized is logged and reported as a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErr.Fields})
		return
	}
	if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondError(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	zap.L().Error("request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
}

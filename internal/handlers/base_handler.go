package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/portstu/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure sends a rejected action with HTTP 200 and success=false in the body
func (h *BaseHandler) respondFailure(w http.ResponseWriter, message string) {
	h.respondJSON(w, http.StatusOK, models.FailureResponse{Success: false, Error: message})
}

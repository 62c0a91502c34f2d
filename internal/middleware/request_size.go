package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/portstu/backend/internal/models"
	"go.uber.org/zap"
)

// MsgRequestTooLarge is the body-level error for requests over the size limit
const MsgRequestTooLarge = "Request too large"

// RequestSizeLimitMiddleware rejects requests whose declared body exceeds maxRequestSize
// with HTTP 200 and success=false, like every other rejection of the API.
// Bodies of unknown length are capped so reading past the limit fails.
func RequestSizeLimitMiddleware(maxRequestSize int64, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxRequestSize {
				logger.Warn("request body too large",
					RequestIDField(r.Context()),
					zap.String("path", r.URL.Path),
					zap.Int64("content_length", r.ContentLength),
					zap.Int64("limit", maxRequestSize),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(models.FailureResponse{Success: false, Error: MsgRequestTooLarge})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/portstu/backend/internal/middleware"
	"github.com/portstu/backend/internal/models"
	"github.com/portstu/backend/internal/services"
	"github.com/portstu/backend/internal/session"
	"go.uber.org/zap"
)

const actionComplete = "complete"

// Body-level error messages of the progress endpoint
const (
	msgInvalidRequest   = "Invalid request"
	msgNotAuthenticated = "Not authenticated"
	msgUnknownAction    = "Unknown action"
	msgInvalidLessonID  = "Invalid lesson ID"
	msgLessonNotFound   = "Lesson not found"
	msgNotEnrolled      = "Not enrolled"
)

// ProgressService is the interface that wraps methods for lesson progress business logic.
type ProgressService interface {
	// Complete marks a lesson as completed by the user and returns the user's progress in the lesson's course.
	//
	// Returns services.ErrInvalidLessonID, services.ErrLessonNotFound or services.ErrNotEnrolled
	// when the request is rejected; any other error is an infrastructure failure.
	Complete(ctx context.Context, user *models.User, lessonID int) (*models.CourseProgress, error)
}

// SessionResolver resolves the caller of a request
type SessionResolver interface {
	Resolve(r *http.Request) (*session.Session, error)
}

// progressRequest is the JSON body of a progress action
type progressRequest struct {
	Action   string          `json:"action"`
	LessonID json.RawMessage `json:"lesson_id"`
}

// decodeProgressRequest reads a single JSON object from body.
// Keys are matched exactly and a repeated key keeps its last value.
// A body that is not exactly one JSON object, or a non-string action,
// yields an empty request.
func decodeProgressRequest(body io.Reader) (progressRequest, error) {
	dec := json.NewDecoder(body)

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return progressRequest{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return progressRequest{}, errors.New("unexpected data after request body")
	}

	req := progressRequest{LessonID: fields["lesson_id"]}
	if raw, ok := fields["action"]; ok {
		if err := json.Unmarshal(raw, &req.Action); err != nil {
			return progressRequest{}, err
		}
	}
	return req, nil
}

// ProgressHandler handles AJAX requests that record lesson progress
type ProgressHandler struct {
	BaseHandler
	service  ProgressService
	sessions SessionResolver
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, sessions SessionResolver, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:     svc,
		sessions:    sessions,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/progress", h.HandleAction)
}

// HandleAction handles POST /api/progress
// @Summary Record lesson progress
// @Description Marks a lesson as completed for the logged in user and returns the course progress.
// @Description Rejections are reported with HTTP 200 and success=false.
// @Tags progress
// @Accept json
// @Produce json
// @Param X-Requested-With header string true "Must be XMLHttpRequest"
// @Param request body progressRequest true "Action, only complete is supported"
// @Success 200 {object} models.ProgressResponse
// @Failure 500 {object} map[string]string
// @Router /api/progress [post]
func (h *ProgressHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if !isAjaxRequest(r) {
		h.respondFailure(w, msgInvalidRequest)
		return
	}

	sess, err := h.sessions.Resolve(r)
	if err != nil {
		h.logger.Error("failed to resolve session", middleware.RequestIDField(r.Context()), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !sess.IsLoggedIn() {
		h.respondFailure(w, msgNotAuthenticated)
		return
	}

	req, err := decodeProgressRequest(r.Body)
	if err != nil {
		h.logger.Debug("failed to decode progress request", zap.Error(err))
	}

	switch req.Action {
	case actionComplete:
		h.complete(w, r, sess.CurrentUser(), coerceLessonID(req.LessonID))
	default:
		h.respondFailure(w, msgUnknownAction)
	}
}

// complete runs the "complete" action
func (h *ProgressHandler) complete(w http.ResponseWriter, r *http.Request, user *models.User, lessonID int) {
	progress, err := h.service.Complete(r.Context(), user, lessonID)
	switch {
	case errors.Is(err, services.ErrInvalidLessonID):
		h.respondFailure(w, msgInvalidLessonID)
	case errors.Is(err, services.ErrLessonNotFound):
		h.respondFailure(w, msgLessonNotFound)
	case errors.Is(err, services.ErrNotEnrolled):
		h.respondFailure(w, msgNotEnrolled)
	case err != nil:
		h.logger.Error("failed to complete lesson",
			middleware.RequestIDField(r.Context()),
			zap.Error(err),
			zap.Int("user_id", user.ID),
			zap.Int("lesson_id", lessonID),
		)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	default:
		h.respondJSON(w, http.StatusOK, models.ProgressResponse{
			Success:        true,
			CourseProgress: *progress,
		})
	}
}

// isAjaxRequest reports whether the request was sent by XMLHttpRequest/fetch from the front end
func isAjaxRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

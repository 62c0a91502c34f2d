package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portstu/backend/internal/models"
	"go.uber.org/zap"
)

// Domain errors returned by ProgressService.Complete.
var (
	ErrInvalidLessonID = errors.New("invalid lesson ID")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrNotEnrolled     = errors.New("not enrolled")
)

// LessonRepository defines methods for lesson data access
type LessonRepository interface {
	// GetWithCourse retrieves a lesson together with its course ID.
	//
	// Returns models.ErrNotFound if the lesson or its course does not exist.
	GetWithCourse(ctx context.Context, lessonID int) (*models.Lesson, error)
}

// EnrollmentRepository defines methods for enrollment data access
type EnrollmentRepository interface {
	// Exists checks if the user is enrolled in the course
	Exists(ctx context.Context, userID, courseID int) (bool, error)
}

// LessonProgressRepository defines methods for lesson progress data access
type LessonProgressRepository interface {
	// RecordCompletion upserts the progress row keyed by (UserID, LessonID)
	// and returns the user's progress in courseID after the write.
	RecordCompletion(ctx context.Context, progress *models.LessonProgress, courseID int) (*models.CourseProgress, error)
}

type progressService struct {
	lessonRepo     LessonRepository
	enrollmentRepo EnrollmentRepository
	progressRepo   LessonProgressRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(
	lessonRepo LessonRepository,
	enrollmentRepo EnrollmentRepository,
	progressRepo LessonProgressRepository,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Complete marks a lesson as completed by the user and returns the updated course progress.
//
// Students must be enrolled in the lesson's course. Other roles are trusted and skip the
// enrollment check. Completing an already completed lesson only refreshes completed_at.
func (s *progressService) Complete(ctx context.Context, user *models.User, lessonID int) (*models.CourseProgress, error) {
	if lessonID <= 0 {
		return nil, ErrInvalidLessonID
	}

	lesson, err := s.lessonRepo.GetWithCourse(ctx, lessonID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if user.IsStudent() {
		enrolled, err := s.enrollmentRepo.Exists(ctx, user.ID, lesson.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	}

	progress, err := s.progressRepo.RecordCompletion(ctx, &models.LessonProgress{
		UserID:      user.ID,
		LessonID:    lesson.ID,
		Completed:   true,
		CompletedAt: s.now().UTC(),
	}, lesson.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to record lesson completion: %w", err)
	}

	s.logger.Info("lesson completed",
		zap.Int("user_id", user.ID),
		zap.Int("lesson_id", lesson.ID),
		zap.Int("course_id", lesson.CourseID),
		zap.Int("progress", progress.Progress),
	)

	return progress, nil
}

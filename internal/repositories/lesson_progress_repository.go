package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/portstu/backend/internal/models"
	"go.uber.org/zap"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type lessonProgressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLessonProgressRepository creates a new lesson progress repository
func NewLessonProgressRepository(db *sql.DB, logger *zap.Logger) *lessonProgressRepository {
	return &lessonProgressRepository{
		db:     db,
		logger: logger,
	}
}

// RecordCompletion marks the lesson complete for the user and recounts the course progress.
// The upsert and both counts run in one transaction so the returned numbers
// reflect a single snapshot.
func (r *lessonProgressRepository) RecordCompletion(ctx context.Context, progress *models.LessonProgress, courseID int) (*models.CourseProgress, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := r.recordCompletion(ctx, tx, progress, courseID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

func (r *lessonProgressRepository) recordCompletion(ctx context.Context, q queryer, progress *models.LessonProgress, courseID int) (*models.CourseProgress, error) {
	if err := r.upsert(ctx, q, progress); err != nil {
		return nil, err
	}

	total, err := r.countLessons(ctx, q, courseID)
	if err != nil {
		return nil, err
	}

	completed, err := r.countCompleted(ctx, q, progress.UserID, courseID)
	if err != nil {
		return nil, err
	}

	return models.NewCourseProgress(completed, total), nil
}

// upsert inserts the progress row or overwrites completed and completed_at of the existing one
func (r *lessonProgressRepository) upsert(ctx context.Context, q queryer, progress *models.LessonProgress) error {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at)
		VALUES (?, ?, ?, ?) AS new
		ON DUPLICATE KEY UPDATE completed = new.completed, completed_at = new.completed_at
	`

	_, err := q.ExecContext(ctx, query,
		progress.UserID,
		progress.LessonID,
		progress.Completed,
		progress.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lesson progress: %w", err)
	}

	return nil
}

// countLessons counts all lessons of a course
func (r *lessonProgressRepository) countLessons(ctx context.Context, q queryer, courseID int) (int, error) {
	query := `SELECT COUNT(*) FROM lessons WHERE course_id = ?`

	var count int
	if err := q.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}

	return count, nil
}

// countCompleted counts the lessons of a course the user has completed
func (r *lessonProgressRepository) countCompleted(ctx context.Context, q queryer, userID, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress lp
		INNER JOIN lessons l ON lp.lesson_id = l.id
		WHERE lp.user_id = ? AND l.course_id = ? AND lp.completed = 1
	`

	var count int
	if err := q.QueryRowContext(ctx, query, userID, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	return count, nil
}

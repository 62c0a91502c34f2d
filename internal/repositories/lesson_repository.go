package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/portstu/backend/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetWithCourse retrieves a lesson by ID.
// Lessons whose course no longer exists are reported as not found.
func (r *lessonRepository) GetWithCourse(ctx context.Context, lessonID int) (*models.Lesson, error) {
	query := `
		SELECT l.id, c.id AS course_id, l.title
		FROM lessons l
		INNER JOIN courses c ON l.course_id = c.id
		WHERE l.id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	err := r.db.QueryRowContext(ctx, query, lessonID).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

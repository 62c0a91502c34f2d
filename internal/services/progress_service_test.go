package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portstu/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockLessonRepository is a mock implementation of LessonRepository
type mockLessonRepository struct {
	lesson *models.Lesson
	err    error
	called bool
}

func (m *mockLessonRepository) GetWithCourse(ctx context.Context, lessonID int) (*models.Lesson, error) {
	m.called = true
	if m.err != nil {
		return nil, m.err
	}
	return m.lesson, nil
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	enrolled bool
	err      error
	called   bool
}

func (m *mockEnrollmentRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	m.called = true
	if m.err != nil {
		return false, m.err
	}
	return m.enrolled, nil
}

// mockLessonProgressRepository keeps completion rows in memory keyed by (user, lesson)
type mockLessonProgressRepository struct {
	totalLessons int
	rows         map[[2]int]models.LessonProgress
	err          error
	lastCourseID int
}

func (m *mockLessonProgressRepository) RecordCompletion(ctx context.Context, progress *models.LessonProgress, courseID int) (*models.CourseProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rows == nil {
		m.rows = make(map[[2]int]models.LessonProgress)
	}
	m.rows[[2]int{progress.UserID, progress.LessonID}] = *progress
	m.lastCourseID = courseID

	completed := 0
	for key, row := range m.rows {
		if key[0] == progress.UserID && row.Completed {
			completed++
		}
	}
	return models.NewCourseProgress(completed, m.totalLessons), nil
}

func newTestProgressService(lessons *mockLessonRepository, enrollments *mockEnrollmentRepository, progress *mockLessonProgressRepository) *progressService {
	return NewProgressService(lessons, enrollments, progress, zap.NewNop())
}

func TestNewProgressService(t *testing.T) {
	lessons := &mockLessonRepository{}
	enrollments := &mockEnrollmentRepository{}
	progress := &mockLessonProgressRepository{}
	logger := zap.NewNop()

	svc := NewProgressService(lessons, enrollments, progress, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, lessons, svc.lessonRepo)
	assert.Equal(t, enrollments, svc.enrollmentRepo)
	assert.Equal(t, progress, svc.progressRepo)
	assert.Equal(t, logger, svc.logger)
	assert.NotNil(t, svc.now)
}

func TestProgressService_Complete(t *testing.T) {
	student := &models.User{ID: 1, Role: models.RoleStudent}
	instructor := &models.User{ID: 2, Role: models.RoleInstructor}
	lesson := &models.Lesson{ID: 2, CourseID: 10, Title: "Loops"}

	tests := []struct {
		name             string
		user             *models.User
		lessonID         int
		lessons          *mockLessonRepository
		enrollments      *mockEnrollmentRepository
		progress         *mockLessonProgressRepository
		expectedErr      error
		expectedErrText  string
		expectedProgress *models.CourseProgress
		expectEnrollment bool
	}{
		{
			name:        "zero lesson id",
			user:        student,
			lessonID:    0,
			lessons:     &mockLessonRepository{lesson: lesson},
			enrollments: &mockEnrollmentRepository{enrolled: true},
			progress:    &mockLessonProgressRepository{},
			expectedErr: ErrInvalidLessonID,
		},
		{
			name:        "negative lesson id",
			user:        student,
			lessonID:    -3,
			lessons:     &mockLessonRepository{lesson: lesson},
			enrollments: &mockEnrollmentRepository{enrolled: true},
			progress:    &mockLessonProgressRepository{},
			expectedErr: ErrInvalidLessonID,
		},
		{
			name:        "lesson not found",
			user:        student,
			lessonID:    99,
			lessons:     &mockLessonRepository{err: models.ErrNotFound},
			enrollments: &mockEnrollmentRepository{enrolled: true},
			progress:    &mockLessonProgressRepository{},
			expectedErr: ErrLessonNotFound,
		},
		{
			name:            "lesson lookup failure",
			user:            student,
			lessonID:        2,
			lessons:         &mockLessonRepository{err: errors.New("database error")},
			enrollments:     &mockEnrollmentRepository{enrolled: true},
			progress:        &mockLessonProgressRepository{},
			expectedErrText: "failed to get lesson: database error",
		},
		{
			name:             "student not enrolled",
			user:             student,
			lessonID:         2,
			lessons:          &mockLessonRepository{lesson: lesson},
			enrollments:      &mockEnrollmentRepository{enrolled: false},
			progress:         &mockLessonProgressRepository{},
			expectedErr:      ErrNotEnrolled,
			expectEnrollment: true,
		},
		{
			name:             "enrollment lookup failure",
			user:             student,
			lessonID:         2,
			lessons:          &mockLessonRepository{lesson: lesson},
			enrollments:      &mockEnrollmentRepository{err: errors.New("database error")},
			progress:         &mockLessonProgressRepository{},
			expectedErrText:  "failed to check enrollment: database error",
			expectEnrollment: true,
		},
		{
			name:        "enrolled student completes second lesson",
			user:        student,
			lessonID:    2,
			lessons:     &mockLessonRepository{lesson: lesson},
			enrollments: &mockEnrollmentRepository{enrolled: true},
			progress: &mockLessonProgressRepository{
				totalLessons: 4,
				rows: map[[2]int]models.LessonProgress{
					{1, 1}: {UserID: 1, LessonID: 1, Completed: true},
				},
			},
			expectedProgress: &models.CourseProgress{Progress: 50, CompletedLessons: 2, TotalLessons: 4},
			expectEnrollment: true,
		},
		{
			name:             "instructor skips enrollment check",
			user:             instructor,
			lessonID:         2,
			lessons:          &mockLessonRepository{lesson: lesson},
			enrollments:      &mockEnrollmentRepository{enrolled: false},
			progress:         &mockLessonProgressRepository{totalLessons: 4},
			expectedProgress: &models.CourseProgress{Progress: 25, CompletedLessons: 1, TotalLessons: 4},
		},
		{
			name:             "admin skips enrollment check",
			user:             &models.User{ID: 3, Role: models.RoleAdmin},
			lessonID:         2,
			lessons:          &mockLessonRepository{lesson: lesson},
			enrollments:      &mockEnrollmentRepository{enrolled: false},
			progress:         &mockLessonProgressRepository{totalLessons: 2},
			expectedProgress: &models.CourseProgress{Progress: 50, CompletedLessons: 1, TotalLessons: 2},
		},
		{
			name:             "course without lessons",
			user:             instructor,
			lessonID:         2,
			lessons:          &mockLessonRepository{lesson: lesson},
			enrollments:      &mockEnrollmentRepository{},
			progress:         &mockLessonProgressRepository{totalLessons: 0},
			expectedProgress: &models.CourseProgress{Progress: 0, CompletedLessons: 1, TotalLessons: 0},
		},
		{
			name:             "progress write failure",
			user:             student,
			lessonID:         2,
			lessons:          &mockLessonRepository{lesson: lesson},
			enrollments:      &mockEnrollmentRepository{enrolled: true},
			progress:         &mockLessonProgressRepository{err: errors.New("deadlock")},
			expectedErrText:  "failed to record lesson completion: deadlock",
			expectEnrollment: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestProgressService(tt.lessons, tt.enrollments, tt.progress)

			result, err := svc.Complete(context.Background(), tt.user, tt.lessonID)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, result)
			case tt.expectedErrText != "":
				assert.EqualError(t, err, tt.expectedErrText)
				assert.Nil(t, result)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedProgress, result)
				assert.Equal(t, lesson.CourseID, tt.progress.lastCourseID)
			}
			assert.Equal(t, tt.expectEnrollment, tt.enrollments.called)
		})
	}
}

func TestProgressService_Complete_Idempotent(t *testing.T) {
	student := &models.User{ID: 1, Role: models.RoleStudent}
	progressRepo := &mockLessonProgressRepository{totalLessons: 4}
	svc := newTestProgressService(
		&mockLessonRepository{lesson: &models.Lesson{ID: 2, CourseID: 10}},
		&mockEnrollmentRepository{enrolled: true},
		progressRepo,
	)

	clock := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	first, err := svc.Complete(context.Background(), student, 2)
	require.NoError(t, err)
	firstCompletedAt := progressRepo.rows[[2]int{1, 2}].CompletedAt

	clock = clock.Add(time.Hour)
	second, err := svc.Complete(context.Background(), student, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.CompletedLessons)
	assert.Equal(t, 25, second.Progress)
	assert.True(t, progressRepo.rows[[2]int{1, 2}].CompletedAt.After(firstCompletedAt))
}

func TestProgressService_Complete_SkipsLookupForInvalidID(t *testing.T) {
	lessons := &mockLessonRepository{}
	svc := newTestProgressService(lessons, &mockEnrollmentRepository{}, &mockLessonProgressRepository{})

	_, err := svc.Complete(context.Background(), &models.User{ID: 1, Role: models.RoleStudent}, 0)

	assert.ErrorIs(t, err, ErrInvalidLessonID)
	assert.False(t, lessons.called)
}

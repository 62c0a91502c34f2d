package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enrollmentExistsQuery = `SELECT EXISTS\(SELECT 1 FROM enrollments WHERE user_id = \? AND course_id = \?\)`

func TestEnrollmentRepository_Exists(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		courseID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedValue bool
	}{
		{
			name:     "enrolled",
			userID:   1,
			courseID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(enrollmentExistsQuery).
					WithArgs(1, 10).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			expectedValue: true,
		},
		{
			name:     "not enrolled",
			userID:   1,
			courseID: 11,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(enrollmentExistsQuery).
					WithArgs(1, 11).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			expectedValue: false,
		},
		{
			name:     "database error",
			userID:   1,
			courseID: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(enrollmentExistsQuery).
					WithArgs(1, 10).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewEnrollmentRepository(db)
			tt.setupMock(mock)

			exists, err := repo.Exists(context.Background(), tt.userID, tt.courseID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, exists)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedValue, exists)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

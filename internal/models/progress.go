package models

import (
	"math"
	"time"
)

// LessonProgress represents a user's completion record for a lesson.
// (UserID, LessonID) is unique.
type LessonProgress struct {
	UserID      int       `json:"userId"`
	LessonID    int       `json:"lessonId"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

// CourseProgress is the completion summary of a user in one course
type CourseProgress struct {
	Progress         int `json:"progress"`
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
}

// NewCourseProgress builds a CourseProgress from the lesson counters
func NewCourseProgress(completed, total int) *CourseProgress {
	return &CourseProgress{
		Progress:         CalculateProgress(completed, total),
		CompletedLessons: completed,
		TotalLessons:     total,
	}
}

// CalculateProgress returns completed/total as a percentage rounded half away from zero.
// A course without lessons has 0 progress.
func CalculateProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ProgressResponse is the body returned after a lesson was marked complete
type ProgressResponse struct {
	Success bool `json:"success"`
	CourseProgress
}

// FailureResponse is the body returned when a progress action is rejected
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

package models

import "errors"

// ErrNotFound is returned by repositories when the requested row does not exist
var ErrNotFound = errors.New("record not found")

// Lesson represents a lesson together with the course it belongs to
type Lesson struct {
	ID       int    `json:"id"`
	CourseID int    `json:"courseId"`
	Title    string `json:"title"`
}

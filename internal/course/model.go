package course

import (
	"github.com/uptrace/bun"
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          int    `bun:"course_id,pk,autoincrement" json:"course_id"`
	CourseCode  string `bun:"course_code,notnull,unique" json:"course_code"`
	CourseName  string `bun:"course_name,notnull" json:"course_name"`
	Description string `bun:"course_description" json:"course_description"`
}

// CreateCourseRequest is the POST /course body. Field order fixes the
// validation order: course_name, then course_code, then course_description.
// The description must be present but may be empty.
type CreateCourseRequest struct {
	CourseName  string  `json:"course_name" validate:"required"`
	CourseCode  string  `json:"course_code" validate:"required"`
	Description *string `json:"course_description" validate:"required"`
}

// UpdateCourseRequest is the PUT /course/{id} body. Name and code are always
// required; the description keeps its previous value when absent.
type UpdateCourseRequest struct {
	CourseName  string  `json:"course_name" validate:"required"`
	CourseCode  string  `json:"course_code" validate:"required"`
	Description *string `json:"course_description"`
}

package enrollment

import (
	"github.com/uptrace/bun"
)

// Enrollment links one student to one course. The (student_id, course_id)
// pair is unique: a student cannot be enrolled in the same course twice.
// Rows are immutable once created; the only legal transition is deletion.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:e"`

	ID        int `bun:"enrollment_id,pk,autoincrement" json:"enrollment_id"`
	StudentID int `bun:"student_id,notnull,unique:student_course" json:"student_id"`
	CourseID  int `bun:"course_id,notnull,unique:student_course" json:"course_id"`
}

// EnrollRequest is the POST /student/{id}/course body. The course id is a
// typed integer identity, not a string.
type EnrollRequest struct {
	CourseID int `json:"course_id" validate:"required"`
}

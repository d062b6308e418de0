package student

import (
	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID         int    `bun:"student_id,pk,autoincrement" json:"student_id"`
	RollNumber string `bun:"roll_number,notnull,unique" json:"roll_number"`
	FirstName  string `bun:"first_name,notnull" json:"first_name"`
	LastName   string `bun:"last_name" json:"last_name"`
}

// CreateStudentRequest is the POST /student body. Field order fixes the
// validation order: roll_number, then first_name, then last_name.
type CreateStudentRequest struct {
	RollNumber string  `json:"roll_number" validate:"required"`
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   *string `json:"last_name"`
}

// UpdateStudentRequest is the PUT /student/{id} body. All fields are
// optional; absent fields are left untouched. A present field must still be a
// non-empty string (last_name may be empty).
type UpdateStudentRequest struct {
	RollNumber *string `json:"roll_number" validate:"omitempty,min=1"`
	FirstName  *string `json:"first_name" validate:"omitempty,min=1"`
	LastName   *string `json:"last_name"`
}

package enrollment

import (
	"context"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, enrollment *Enrollment) (*Enrollment, error)
	ListByStudent(ctx context.Context, studentID int) ([]Enrollment, error)
	DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{
		db: db,
	}
}

// Create inserts the enrollment after checking the (student_id, course_id)
// pair in the same transaction. The composite unique constraint is the
// storage-level backstop against two concurrent enrolls both succeeding.
func (r *repository) Create(ctx context.Context, enrollment *Enrollment) (*Enrollment, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Enrollment)(nil)).
			Where("student_id = ?", enrollment.StudentID).
			Where("course_id = ?", enrollment.CourseID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyEnrolled
		}

		_, err = tx.NewInsert().Model(enrollment).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]Enrollment, error) {
	var enrollments []Enrollment
	err := r.db.NewSelect().
		Model(&enrollments).
		Where("student_id = ?", studentID).
		Order("enrollment_id ASC").
		Scan(ctx)
	return enrollments, err
}

// DeleteByStudentAndCourse removes every enrollment matching the pair.
func (r *repository) DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int) error {
	result, err := r.db.NewDelete().
		Model((*Enrollment)(nil)).
		Where("student_id = ?", studentID).
		Where("course_id = ?", courseID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

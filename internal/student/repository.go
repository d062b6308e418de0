package student

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	GetAll(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	Update(ctx context.Context, student *Student) (*Student, error)
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{
		db: db,
	}
}

// Create inserts the student after checking roll_number uniqueness, both in
// one transaction so two concurrent creates with the same roll number cannot
// both succeed. The unique constraint on the column is the storage-level
// backstop.
func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Student)(nil)).
			Where("roll_number = ?", student.RollNumber).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrRollNumberExists
		}

		_, err = tx.NewInsert().Model(student).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Student, error) {
	var students []Student
	err := r.db.NewSelect().Model(&students).Order("student_id ASC").Scan(ctx)
	return students, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("student_id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// Update writes the full row. The uniqueness check excludes the student's own
// row, so updating a student with its unchanged roll number is not a conflict.
func (r *repository) Update(ctx context.Context, student *Student) (*Student, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*Student)(nil)).
			Where("roll_number = ?", student.RollNumber).
			Where("student_id != ?", student.ID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return ErrRollNumberExists
		}

		result, err := tx.NewUpdate().Model(student).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes the student and every enrollment referencing it in one
// transaction, so no orphaned enrollment can survive the delete.
func (r *repository) Delete(ctx context.Context, id int) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Table("enrollments").
			Where("student_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		result, err := tx.NewDelete().Model(&Student{ID: id}).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrStudentNotFound
		}
		return nil
	})
}

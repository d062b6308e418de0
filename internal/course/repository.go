package course

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, course *Course) (*Course, error)
	GetAll(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id int) (*Course, error)
	Update(ctx context.Context, course *Course) (*Course, error)
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

// Create inserts the course after checking course_code uniqueness in the same
// transaction. The unique constraint on the column is the storage-level
// backstop against a concurrent create winning the race.
func (r *repository) Create(ctx context.Context, course *Course) (*Course, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Course)(nil)).
			Where("course_code = ?", course.CourseCode).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrCourseCodeExists
		}

		_, err = tx.NewInsert().Model(course).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Course, error) {
	var courses []Course
	err := r.db.NewSelect().Model(&courses).Order("course_id ASC").Scan(ctx)
	return courses, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Course, error) {
	course := new(Course)
	err := r.db.NewSelect().Model(course).Where("course_id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Update writes the full row. The uniqueness check excludes the course's own
// row, so re-submitting an unchanged course code is not a conflict.
func (r *repository) Update(ctx context.Context, course *Course) (*Course, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*Course)(nil)).
			Where("course_code = ?", course.CourseCode).
			Where("course_id != ?", course.ID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return ErrCourseCodeExists
		}

		result, err := tx.NewUpdate().Model(course).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes the course and every enrollment referencing it in one
// transaction, so no orphaned enrollment can survive the delete.
func (r *repository) Delete(ctx context.Context, id int) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Table("enrollments").
			Where("course_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		result, err := tx.NewDelete().Model(&Course{ID: id}).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

package enrollment

import (
	"context"
	"errors"
	"log/slog"

	"enrollment-service/internal/course"
	"enrollment-service/internal/events"
	"enrollment-service/internal/student"
)

var (
	ErrAlreadyEnrolled    = errors.New("student is already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidInput       = errors.New("invalid input")
)

type Service interface {
	Enroll(ctx context.Context, studentID, courseID int) (*Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID int) error
	ListForStudent(ctx context.Context, studentID int) ([]Enrollment, error)
}

// service checks referential integrity against the student and course
// repositories before touching enrollment rows. Not-found errors from those
// repositories pass through unchanged so the transport can tell which side of
// the link was missing.
type service struct {
	repo     Repository
	students student.Repository
	courses  course.Repository
	producer events.Producer
	logger   *slog.Logger
}

func NewService(repo Repository, students student.Repository, courses course.Repository, producer events.Producer, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		students: students,
		courses:  courses,
		producer: producer,
		logger:   logger,
	}
}

func (s *service) Enroll(ctx context.Context, studentID, courseID int) (*Enrollment, error) {
	if studentID <= 0 || courseID <= 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeStudentEnrolled, created.ID)
	return created, nil
}

func (s *service) Unenroll(ctx context.Context, studentID, courseID int) error {
	if studentID <= 0 || courseID <= 0 {
		return ErrInvalidInput
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}

	if err := s.repo.DeleteByStudentAndCourse(ctx, studentID, courseID); err != nil {
		return err
	}

	s.publish(ctx, events.TypeStudentUnenrolled, studentID)
	return nil
}

func (s *service) ListForStudent(ctx context.Context, studentID int) ([]Enrollment, error) {
	if studentID <= 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	return s.repo.ListByStudent(ctx, studentID)
}

func (s *service) publish(ctx context.Context, eventType string, id int) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, events.New(eventType, "enrollment", id)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}

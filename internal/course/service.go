package course

import (
	"context"
	"errors"
	"log/slog"

	"enrollment-service/internal/events"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCourseCodeExists = errors.New("course code already exists")
	ErrInvalidInput     = errors.New("invalid input")
)

type Service interface {
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*Course, error)
	GetAllCourses(ctx context.Context) ([]Course, error)
	GetCourseByID(ctx context.Context, id int) (*Course, error)
	UpdateCourse(ctx context.Context, id int, req *UpdateCourseRequest) (*Course, error)
	DeleteCourse(ctx context.Context, id int) error
}

type service struct {
	repo     Repository
	producer events.Producer
	logger   *slog.Logger
}

func NewService(repo Repository, producer events.Producer, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

func (s *service) CreateCourse(ctx context.Context, req *CreateCourseRequest) (*Course, error) {
	course := &Course{
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	created, err := s.repo.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeCourseCreated, created.ID)
	return created, nil
}

func (s *service) GetAllCourses(ctx context.Context) ([]Course, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetCourseByID(ctx context.Context, id int) (*Course, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateCourse(ctx context.Context, id int, req *UpdateCourseRequest) (*Course, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.CourseName = req.CourseName
	course.CourseCode = req.CourseCode
	if req.Description != nil {
		course.Description = *req.Description
	}

	updated, err := s.repo.Update(ctx, course)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeCourseUpdated, updated.ID)
	return updated, nil
}

func (s *service) DeleteCourse(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.TypeCourseDeleted, id)
	return nil
}

func (s *service) publish(ctx context.Context, eventType string, id int) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, events.New(eventType, "course", id)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}

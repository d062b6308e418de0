package student

import (
	"context"
	"errors"
	"log/slog"

	"enrollment-service/internal/events"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrRollNumberExists = errors.New("roll number already exists")
	ErrInvalidInput     = errors.New("invalid input")
)

type Service interface {
	CreateStudent(ctx context.Context, req *CreateStudentRequest) (*Student, error)
	GetAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id int) (*Student, error)
	UpdateStudent(ctx context.Context, id int, req *UpdateStudentRequest) (*Student, error)
	DeleteStudent(ctx context.Context, id int) error
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

func (s *service) CreateStudent(ctx context.Context, req *CreateStudentRequest) (*Student, error) {
	student := &Student{
		RollNumber: req.RollNumber,
		FirstName:  req.FirstName,
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeStudentCreated, created.ID)
	return created, nil
}

func (s *service) GetAllStudents(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetStudentByID(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStudent applies only the fields present in the request. The fetch,
// the merge and the conditional uniqueness check happen before anything is
// written; a failed guard leaves the record untouched.
func (s *service) UpdateStudent(ctx context.Context, id int, req *UpdateStudentRequest) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RollNumber != nil {
		student.RollNumber = *req.RollNumber
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeStudentUpdated, updated.ID)
	return updated, nil
}

func (s *service) DeleteStudent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.TypeStudentDeleted, id)
	return nil
}

// publish is best-effort: the mutation already committed, so a broker failure
// is logged and not surfaced to the caller.
func (s *service) publish(ctx context.Context, eventType string, id int) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, events.New(eventType, "student", id)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}

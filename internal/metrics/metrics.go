package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	studentsCreated    metric.Int64Counter
	studentsUpdated    metric.Int64Counter
	studentsDeleted    metric.Int64Counter
	studentsViewed     metric.Int64Counter
	coursesCreated     metric.Int64Counter
	coursesUpdated     metric.Int64Counter
	coursesDeleted     metric.Int64Counter
	coursesViewed      metric.Int64Counter
	enrollmentsCreated metric.Int64Counter
	enrollmentsDeleted metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.studentsCreated, err = meter.Int64Counter(
		"enrollment_service.students.created",
		metric.WithDescription("Total number of students created"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsUpdated, err = meter.Int64Counter(
		"enrollment_service.students.updated",
		metric.WithDescription("Total number of student updates"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsDeleted, err = meter.Int64Counter(
		"enrollment_service.students.deleted",
		metric.WithDescription("Total number of students deleted"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsViewed, err = meter.Int64Counter(
		"enrollment_service.students.viewed",
		metric.WithDescription("Total number of students viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.coursesCreated, err = meter.Int64Counter(
		"enrollment_service.courses.created",
		metric.WithDescription("Total number of courses created"),
		metric.WithUnit("{course}"),
	)
	if err != nil {
		return nil, err
	}

	m.coursesUpdated, err = meter.Int64Counter(
		"enrollment_service.courses.updated",
		metric.WithDescription("Total number of course updates"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	m.coursesDeleted, err = meter.Int64Counter(
		"enrollment_service.courses.deleted",
		metric.WithDescription("Total number of courses deleted"),
		metric.WithUnit("{course}"),
	)
	if err != nil {
		return nil, err
	}

	m.coursesViewed, err = meter.Int64Counter(
		"enrollment_service.courses.viewed",
		metric.WithDescription("Total number of courses viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsCreated, err = meter.Int64Counter(
		"enrollment_service.enrollments.created",
		metric.WithDescription("Total number of enrollments created"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsDeleted, err = meter.Int64Counter(
		"enrollment_service.enrollments.deleted",
		metric.WithDescription("Total number of enrollments deleted"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordStudentCreated(ctx context.Context) {
	if m != nil && m.studentsCreated != nil {
		m.studentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentUpdated(ctx context.Context) {
	if m != nil && m.studentsUpdated != nil {
		m.studentsUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentDeleted(ctx context.Context) {
	if m != nil && m.studentsDeleted != nil {
		m.studentsDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentViewed(ctx context.Context) {
	if m != nil && m.studentsViewed != nil {
		m.studentsViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCourseCreated(ctx context.Context) {
	if m != nil && m.coursesCreated != nil {
		m.coursesCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCourseUpdated(ctx context.Context) {
	if m != nil && m.coursesUpdated != nil {
		m.coursesUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCourseDeleted(ctx context.Context) {
	if m != nil && m.coursesDeleted != nil {
		m.coursesDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCourseViewed(ctx context.Context) {
	if m != nil && m.coursesViewed != nil {
		m.coursesViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEnrollmentCreated(ctx context.Context) {
	if m != nil && m.enrollmentsCreated != nil {
		m.enrollmentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEnrollmentDeleted(ctx context.Context) {
	if m != nil && m.enrollmentsDeleted != nil {
		m.enrollmentsDeleted.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}

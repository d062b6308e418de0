package events

import (
	"context"
	"time"
)

// Event types published after a mutation commits.
const (
	TypeStudentCreated    = "student.created"
	TypeStudentUpdated    = "student.updated"
	TypeStudentDeleted    = "student.deleted"
	TypeCourseCreated     = "course.created"
	TypeCourseUpdated     = "course.updated"
	TypeCourseDeleted     = "course.deleted"
	TypeStudentEnrolled   = "enrollment.created"
	TypeStudentUnenrolled = "enrollment.deleted"
)

// Event describes a committed mutation to a domain record.
type Event struct {
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   int       `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(eventType, entity string, entityID int) Event {
	return Event{
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// Producer publishes domain events to a message broker (NATS/Kafka)
type Producer interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

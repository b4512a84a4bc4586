package domain

import "time"

// LifecycleEventType names a durable state change of a user record.
type LifecycleEventType string

const (
	EventUserCreated LifecycleEventType = "user.created"
	EventUserUpdated LifecycleEventType = "user.updated"
	EventUserRemoved LifecycleEventType = "user.removed"
)

// LifecycleEvent is emitted after a user record has been persisted. Delivery
// is best effort and at most once; subscribers must treat it as a hint.
type LifecycleEvent struct {
	ID         string
	Type       LifecycleEventType
	User       *User
	OccurredAt time.Time
}

package domain

import "time"

// EventTypeUserCreated identifies the notification emitted after a user is provisioned.
const EventTypeUserCreated = "user.created"

// UserCreatedEvent is published for downstream consumers once a new user
// row is committed. It never carries the credential.
type UserCreatedEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Phone        string    `json:"phone"`
	RoleID       string    `json:"role_id"`
	CreationDate time.Time `json:"creation_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

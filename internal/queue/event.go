// Package queue defines the auth event payloads exchanged over the message
// broker and the publisher/consumer endpoints for them.
package queue

import "time"

// Event types published to the auth.events queue.
const (
	EventUserRegistered = "user.registered"
	EventUserVerified   = "user.verified"
	EventPasswordReset  = "password.reset"
)

// AuthEvent is published when an account changes state. It carries enough
// for downstream consumers to build an audit trail or trigger analytics
// without querying the primary database.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAuthEvent builds an event stamped with the current UTC time.
func NewAuthEvent(eventType string, userID uint64, email string) AuthEvent {
	return AuthEvent{
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

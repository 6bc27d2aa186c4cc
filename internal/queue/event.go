// Package queue defines the authentication audit events exchanged over the
// message broker, together with their publisher and consumer.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// AuthEventsQueue is the durable queue carrying AuthEvent messages.
const AuthEventsQueue = "auth.events"

// Event types.
const (
	EventRegistered     = "auth.registered"
	EventLoginSucceeded = "auth.login_succeeded"
	EventLoginFailed    = "auth.login_failed"
	EventTokenRefreshed = "auth.token_refreshed"
	EventRefreshFailed  = "auth.refresh_failed"
)

// AuthEvent is published after each credential operation. It never carries
// passwords or tokens.
type AuthEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RemoteIP   string `json:"remote_ip,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewAuthEvent stamps a fresh id and the current UTC time.
func NewAuthEvent(typ, email string) AuthEvent {
	return AuthEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		Email:      email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

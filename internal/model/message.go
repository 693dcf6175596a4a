package model

import (
	"context"
	"time"
)

// Event types carried in queue messages.
const (
	EventUserSignup = "USER_SIGNUP"
	EventUserLogin  = "USER_LOGIN"
)

// Message is the wire format for broker messages. Payload must be
// JSON-serializable; Timestamp is epoch milliseconds.
type Message struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

// UserSignupEvent is the payload published on successful signup.
type UserSignupEvent struct {
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PhoneNumber   *string   `json:"phoneNumber"`
	Name          string    `json:"name"`
	CognitoSub    string    `json:"cognitoSub"`
	UserConfirmed bool      `json:"userConfirmed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserLoginEvent is the payload published on login and on confirmation.
type UserLoginEvent struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventPublisher publishes user lifecycle events to the broker.
type EventPublisher interface {
	PublishUserSignup(ctx context.Context, event UserSignupEvent) error
	PublishUserLogin(ctx context.Context, event UserLoginEvent) error
	Connected() bool
}

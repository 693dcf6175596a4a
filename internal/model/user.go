package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for the local user mirror.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetConfirmed(ctx context.Context, username string, confirmed bool) error
}

// User is a denormalized copy of a Cognito user. Cognito stays the source
// of truth; this record is written after provider calls succeed.
type User struct {
	ID            uuid.UUID `json:"id"`
	CognitoSub    string    `json:"cognitoSub"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PhoneNumber   *string   `json:"phoneNumber"`
	Name          string    `json:"name"`
	UserConfirmed bool      `json:"userConfirmed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

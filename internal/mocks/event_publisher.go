package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brlima/auth-gateway/internal/model"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishUserSignup(ctx context.Context, event model.UserSignupEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventPublisher) PublishUserLogin(ctx context.Context, event model.UserLoginEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventPublisher) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

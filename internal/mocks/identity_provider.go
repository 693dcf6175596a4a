package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brlima/auth-gateway/internal/model"
)

type IdentityProvider struct {
	mock.Mock
}

func (m *IdentityProvider) SignIn(ctx context.Context, username, password string) (model.AuthTokens, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(model.AuthTokens), args.Error(1)
}

func (m *IdentityProvider) SignUp(ctx context.Context, params model.SignUpParams) (model.SignUpResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.SignUpResult), args.Error(1)
}

func (m *IdentityProvider) ConfirmSignUp(ctx context.Context, username, code string) (bool, error) {
	args := m.Called(ctx, username, code)
	return args.Bool(0), args.Error(1)
}

func (m *IdentityProvider) ResendConfirmationCode(ctx context.Context, username string) (model.CodeDelivery, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.CodeDelivery), args.Error(1)
}

func (m *IdentityProvider) ForgotPassword(ctx context.Context, username string) (model.CodeDelivery, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.CodeDelivery), args.Error(1)
}

func (m *IdentityProvider) ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) error {
	args := m.Called(ctx, username, code, newPassword)
	return args.Error(0)
}

func (m *IdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

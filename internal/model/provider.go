package model

import "context"

// IdentityProvider wraps the managed identity provider that owns
// credentials, tokens and confirmation codes.
type IdentityProvider interface {
	SignIn(ctx context.Context, username, password string) (AuthTokens, error)
	SignUp(ctx context.Context, params SignUpParams) (SignUpResult, error)
	ConfirmSignUp(ctx context.Context, username, code string) (bool, error)
	ResendConfirmationCode(ctx context.Context, username string) (CodeDelivery, error)
	ForgotPassword(ctx context.Context, username string) (CodeDelivery, error)
	ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) error
	SignOut(ctx context.Context, accessToken string) error
}

// AuthTokens is a completed authentication result.
type AuthTokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
}

// SignUpParams carries the attributes sent to the provider on signup.
// PhoneNumber is optional and omitted from the provider call when nil.
type SignUpParams struct {
	Username    string
	Password    string
	Email       string
	PhoneNumber *string
	Name        string
}

// SignUpResult is the provider's view of a freshly registered user.
type SignUpResult struct {
	UserSub       string
	UserConfirmed bool
}

// CodeDelivery describes how a confirmation or reset code was delivered.
// DeliveryMedium may be empty when the provider does not report it.
type CodeDelivery struct {
	DeliveryMedium string
	Destination    string
}

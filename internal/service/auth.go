package service

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brlima/auth-gateway/internal/logger"
	"github.com/brlima/auth-gateway/internal/model"
)

// Auth orchestrates the auth use cases: validate happens upstream in the
// HTTP layer; here each operation delegates to the identity provider,
// then persists and publishes side effects in a fixed order. Steps are
// not atomic with each other and there is no compensation: the first
// failing step aborts the rest and its error propagates unchanged.
type Auth struct {
	provider model.IdentityProvider
	users    model.UserStore
	events   model.EventPublisher
	logger   *logger.Logger
}

// NewAuth creates the auth use-case service.
func NewAuth(
	provider model.IdentityProvider,
	users model.UserStore,
	events model.EventPublisher,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		provider: provider,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type SignupRequest struct {
	Username    string
	Password    string
	Email       string
	PhoneNumber *string
	Name        string
}

type SignupResponse struct {
	CognitoSub    string `json:"cognitoSub"`
	Username      string `json:"username"`
	UserConfirmed bool   `json:"userConfirmed"`
	Message       string `json:"message"`
}

type ConfirmSignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CodeDeliveryResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DeliveryMethod string `json:"deliveryMethod"`
}

type ConfirmForgotPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login signs the user in with the provider and publishes a USER_LOGIN
// event before returning the issued tokens.
func (a *Auth) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	a.logger.Debug("Auth service: logging in user", "username", req.Username)

	tokens, err := a.provider.SignIn(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	now := time.Now()
	err = a.events.PublishUserLogin(ctx, model.UserLoginEvent{
		Username:  req.Username,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return LoginResponse{}, err
	}

	a.logger.Info("Auth service: user signed in", "username", req.Username)

	return LoginResponse{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Signup registers the user with the provider, mirrors the record locally
// and publishes a USER_SIGNUP event. The local record is always created
// unconfirmed, whatever the provider reports; the response carries the
// provider's view.
func (a *Auth) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	a.logger.Debug("Auth service: signing up user", "username", req.Username)

	result, err := a.provider.SignUp(ctx, model.SignUpParams{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
	})
	if err != nil {
		return SignupResponse{}, err
	}

	now := time.Now()
	user := model.User{
		ID:            uuid.New(),
		CognitoSub:    result.UserSub,
		Username:      req.Username,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Name:          req.Name,
		UserConfirmed: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := a.users.Create(ctx, user); err != nil {
		a.logger.Error("Auth service: failed to store user mirror",
			"username", req.Username,
			"error", err.Error())
		return SignupResponse{}, err
	}

	err = a.events.PublishUserSignup(ctx, model.UserSignupEvent{
		Username:      user.Username,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		Name:          user.Name,
		CognitoSub:    user.CognitoSub,
		UserConfirmed: false,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	})
	if err != nil {
		return SignupResponse{}, err
	}

	a.logger.Info("Auth service: user signed up",
		"username", req.Username,
		"sub", result.UserSub)

	return SignupResponse{
		CognitoSub:    result.UserSub,
		Username:      req.Username,
		UserConfirmed: result.UserConfirmed,
		Message:       "User registered successfully. Please check your email for confirmation code.",
	}, nil
}

// ConfirmSignup confirms the registration with the provider, then
// publishes a USER_LOGIN event and flips the local confirmation flag.
// The two follow-up steps are not atomic with each other.
func (a *Auth) ConfirmSignup(ctx context.Context, username, code string) (ConfirmSignupResponse, error) {
	confirmed, err := a.provider.ConfirmSignUp(ctx, username, code)
	if err != nil {
		return ConfirmSignupResponse{}, err
	}
	if !confirmed {
		return ConfirmSignupResponse{}, model.NewAPIError("Failed to confirm user", http.StatusInternalServerError)
	}

	now := time.Now()
	err = a.events.PublishUserLogin(ctx, model.UserLoginEvent{
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return ConfirmSignupResponse{}, err
	}

	if err := a.users.SetConfirmed(ctx, username, true); err != nil {
		return ConfirmSignupResponse{}, err
	}

	a.logger.Info("Auth service: user confirmed", "username", username)

	return ConfirmSignupResponse{
		Success: true,
		Message: "User confirmed successfully",
	}, nil
}

// ResendConfirmationCode asks the provider to resend the code. The
// reported delivery method is always EMAIL regardless of the provider's
// delivery medium.
func (a *Auth) ResendConfirmationCode(ctx context.Context, username string) (CodeDeliveryResponse, error) {
	if _, err := a.provider.ResendConfirmationCode(ctx, username); err != nil {
		return CodeDeliveryResponse{}, err
	}

	return CodeDeliveryResponse{
		Success:        true,
		Message:        "Confirmation code resent successfully. Please check your email.",
		DeliveryMethod: "EMAIL",
	}, nil
}

// ForgotPassword starts a password reset. The delivery method comes from
// the provider's delivery medium, defaulting to EMAIL when absent.
func (a *Auth) ForgotPassword(ctx context.Context, username string) (CodeDeliveryResponse, error) {
	delivery, err := a.provider.ForgotPassword(ctx, username)
	if err != nil {
		return CodeDeliveryResponse{}, err
	}

	method := delivery.DeliveryMedium
	if method == "" {
		method = "EMAIL"
	}

	a.logger.Info("Auth service: password reset initiated", "username", username)

	return CodeDeliveryResponse{
		Success:        true,
		Message:        "Password reset code sent successfully. Please check your email or phone.",
		DeliveryMethod: method,
	}, nil
}

// ConfirmForgotPassword completes a password reset with the provider.
func (a *Auth) ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) (ConfirmForgotPasswordResponse, error) {
	if err := a.provider.ConfirmForgotPassword(ctx, username, code, newPassword); err != nil {
		return ConfirmForgotPasswordResponse{}, err
	}

	a.logger.Info("Auth service: password reset confirmed", "username", username)

	return ConfirmForgotPasswordResponse{
		Success: true,
		Message: "Password has been reset successfully. You can now login with your new password.",
	}, nil
}

// Logout revokes the session at the provider when an access token is
// supplied. Revocation is best effort: failures are logged and the
// operation still succeeds from the caller's view.
func (a *Auth) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}

	username := usernameFromToken(accessToken)

	if err := a.provider.SignOut(ctx, accessToken); err != nil {
		a.logger.Warn("Auth service: global sign-out failed",
			"username", username,
			"error", err.Error())
		return
	}

	a.logger.Info("Auth service: user signed out", "username", username)
}

// usernameFromToken reads the username claim without verifying the
// signature; the value is only used for logging.
func usernameFromToken(accessToken string) string {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	username, _ := claims["username"].(string)
	return username
}

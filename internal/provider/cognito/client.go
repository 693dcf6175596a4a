package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/brlima/auth-gateway/internal/config"
	"github.com/brlima/auth-gateway/internal/logger"
	"github.com/brlima/auth-gateway/internal/model"
)

// api is the subset of the Cognito IDP SDK client used by the gateway.
type api interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, params *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error)
	ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
}

var _ model.IdentityProvider = (*Client)(nil)

// Client delegates authentication operations to AWS Cognito.
type Client struct {
	api          api
	clientID     string
	clientSecret string
	logger       *logger.Logger
}

// NewClient creates a Client on top of a configured Cognito SDK client.
func NewClient(sdk *cip.Client, cfg config.Cognito, logger *logger.Logger) *Client {
	return &Client{
		api:          sdk,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger,
	}
}

// secretHash computes the HMAC credential Cognito requires when the app
// client is configured with a secret: base64(HMAC-SHA256(secret, username+clientID)).
func (c *Client) secretHash(username string) (string, error) {
	if c.clientSecret == "" {
		return "", errors.New("client secret is required but not configured")
	}

	mac := hmac.New(sha256.New, []byte(c.clientSecret))
	mac.Write([]byte(username + c.clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// SignIn performs a USER_PASSWORD_AUTH flow. A challenge response instead
// of completed authentication is surfaced as an error: 403 for
// NEW_PASSWORD_REQUIRED, 401 for anything else.
func (c *Client) SignIn(ctx context.Context, username, password string) (model.AuthTokens, error) {
	params := &cip.InitiateAuthInput{
		ClientId: aws.String(c.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	}

	if c.clientSecret != "" {
		hash, err := c.secretHash(username)
		if err != nil {
			return model.AuthTokens{}, err
		}
		params.AuthParameters["SECRET_HASH"] = hash
	}

	result, err := c.api.InitiateAuth(ctx, params)
	if err != nil {
		c.logger.Error("Cognito client: failed to sign in user",
			"username", username,
			"error", err.Error())
		return model.AuthTokens{}, err
	}

	if result.AuthenticationResult == nil {
		if result.ChallengeName == types.ChallengeNameTypeNewPasswordRequired {
			c.logger.Info("Cognito client: new password required", "username", username)
			return model.AuthTokens{}, model.NewAPIError("New password required", http.StatusForbidden)
		}
		return model.AuthTokens{}, model.NewAPIError(
			"Authentication failed: "+string(result.ChallengeName), http.StatusUnauthorized)
	}

	return model.AuthTokens{
		AccessToken:  aws.ToString(result.AuthenticationResult.AccessToken),
		IDToken:      aws.ToString(result.AuthenticationResult.IdToken),
		RefreshToken: aws.ToString(result.AuthenticationResult.RefreshToken),
	}, nil
}

// SignUp registers a user with email and name attributes; the phone
// attribute is sent only when provided.
func (c *Client) SignUp(ctx context.Context, params model.SignUpParams) (model.SignUpResult, error) {
	attributes := []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(params.Email)},
		{Name: aws.String("name"), Value: aws.String(params.Name)},
	}

	if params.PhoneNumber != nil {
		attributes = append(attributes, types.AttributeType{
			Name:  aws.String("phone_number"),
			Value: aws.String(*params.PhoneNumber),
		})
	}

	input := &cip.SignUpInput{
		ClientId:       aws.String(c.clientID),
		Username:       aws.String(params.Username),
		Password:       aws.String(params.Password),
		UserAttributes: attributes,
	}

	if c.clientSecret != "" {
		hash, err := c.secretHash(params.Username)
		if err != nil {
			return model.SignUpResult{}, err
		}
		input.SecretHash = aws.String(hash)
	}

	result, err := c.api.SignUp(ctx, input)
	if err != nil {
		c.logger.Error("Cognito client: failed to sign up user",
			"username", params.Username,
			"error", err.Error())
		return model.SignUpResult{}, err
	}

	c.logger.Info("Cognito client: user signed up",
		"username", params.Username,
		"sub", aws.ToString(result.UserSub))

	return model.SignUpResult{
		UserSub:       aws.ToString(result.UserSub),
		UserConfirmed: result.UserConfirmed,
	}, nil
}

// ConfirmSignUp confirms a pending registration with the emailed code.
func (c *Client) ConfirmSignUp(ctx context.Context, username, code string) (bool, error) {
	input := &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	}

	if c.clientSecret != "" {
		hash, err := c.secretHash(username)
		if err != nil {
			return false, err
		}
		input.SecretHash = aws.String(hash)
	}

	if _, err := c.api.ConfirmSignUp(ctx, input); err != nil {
		c.logger.Error("Cognito client: failed to confirm sign up",
			"username", username,
			"error", err.Error())
		return false, err
	}

	c.logger.Info("Cognito client: user confirmed", "username", username)

	return true, nil
}

// ResendConfirmationCode asks Cognito to resend the confirmation code.
func (c *Client) ResendConfirmationCode(ctx context.Context, username string) (model.CodeDelivery, error) {
	input := &cip.ResendConfirmationCodeInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(username),
	}

	if c.clientSecret != "" {
		hash, err := c.secretHash(username)
		if err != nil {
			return model.CodeDelivery{}, err
		}
		input.SecretHash = aws.String(hash)
	}

	result, err := c.api.ResendConfirmationCode(ctx, input)
	if err != nil {
		c.logger.Error("Cognito client: failed to resend confirmation code",
			"username", username,
			"error", err.Error())
		return model.CodeDelivery{}, err
	}

	c.logger.Info("Cognito client: confirmation code resent", "username", username)

	return codeDelivery(result.CodeDeliveryDetails), nil
}

// ForgotPassword starts a password reset flow.
func (c *Client) ForgotPassword(ctx context.Context, username string) (model.CodeDelivery, error) {
	input := &cip.ForgotPasswordInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(username),
	}

	if c.clientSecret != "" {
		hash, err := c.secretHash(username)
		if err != nil {
			return model.CodeDelivery{}, err
		}
		input.SecretHash = aws.String(hash)
	}

	result, err := c.api.ForgotPassword(ctx, input)
	if err != nil {
		c.logger.Error("Cognito client: failed to start password reset",
			"username", username,
			"error", err.Error())
		return model.CodeDelivery{}, err
	}

	c.logger.Info("Cognito client: password reset code sent", "username", username)

	return codeDelivery(result.CodeDeliveryDetails), nil
}

// ConfirmForgotPassword completes a password reset with the delivered code.
func (c *Client) ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) error {
	input := &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
	}

	if c.clientSecret != "" {
		hash, err := c.secretHash(username)
		if err != nil {
			return err
		}
		input.SecretHash = aws.String(hash)
	}

	if _, err := c.api.ConfirmForgotPassword(ctx, input); err != nil {
		c.logger.Error("Cognito client: failed to confirm password reset",
			"username", username,
			"error", err.Error())
		return err
	}

	c.logger.Info("Cognito client: password reset completed", "username", username)

	return nil
}

// SignOut revokes every token issued for the access token's session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		c.logger.Error("Cognito client: failed to sign out user", "error", err.Error())
		return err
	}

	return nil
}

func codeDelivery(details *types.CodeDeliveryDetailsType) model.CodeDelivery {
	if details == nil {
		return model.CodeDelivery{}
	}
	return model.CodeDelivery{
		DeliveryMedium: string(details.DeliveryMedium),
		Destination:    aws.ToString(details.Destination),
	}
}

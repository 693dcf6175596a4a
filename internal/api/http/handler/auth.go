package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brlima/auth-gateway/internal/logger"
	"github.com/brlima/auth-gateway/internal/service"
)

// AuthService is the use-case surface the HTTP layer depends on.
type AuthService interface {
	Login(ctx context.Context, req service.LoginRequest) (service.LoginResponse, error)
	Signup(ctx context.Context, req service.SignupRequest) (service.SignupResponse, error)
	ConfirmSignup(ctx context.Context, username, code string) (service.ConfirmSignupResponse, error)
	ResendConfirmationCode(ctx context.Context, username string) (service.CodeDeliveryResponse, error)
	ForgotPassword(ctx context.Context, username string) (service.CodeDeliveryResponse, error)
	ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) (service.ConfirmForgotPasswordResponse, error)
	Logout(ctx context.Context, accessToken string)
}

var _ AuthService = (*service.Auth)(nil)

// Auth exposes the auth use cases over HTTP. Each handler binds the
// JSON body, validates it, and only then invokes the use case.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Debug("login failed", "username", req.Username, "error", err.Error())
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Auth) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), service.SignupRequest{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
	})
	if err != nil {
		h.logger.Debug("signup failed", "username", req.Username, "error", err.Error())
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Auth) ConfirmSignup(c *gin.Context) {
	var req confirmSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.ConfirmSignup(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Auth) ResendConfirmationCode(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.ResendConfirmationCode(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Auth) ForgotPassword(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.ForgotPassword(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Auth) ConfirmForgotPassword(c *gin.Context) {
	var req confirmForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.ConfirmForgotPassword(c.Request.Context(), req.Username, req.ConfirmationCode, req.NewPassword)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout always succeeds; a bearer token, when present, is revoked
// best effort.
func (h *Auth) Logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	h.service.Logout(c.Request.Context(), token)

	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully."})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimPrefix(header, prefix)
	}
	return ""
}

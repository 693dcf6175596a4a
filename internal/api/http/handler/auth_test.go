package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brlima/auth-gateway/internal/model"
	"github.com/brlima/auth-gateway/internal/service"
	"github.com/brlima/auth-gateway/internal/testutil"
)

type fakeAuthService struct {
	loginFn         func(ctx context.Context, req service.LoginRequest) (service.LoginResponse, error)
	signupFn        func(ctx context.Context, req service.SignupRequest) (service.SignupResponse, error)
	confirmFn       func(ctx context.Context, username, code string) (service.ConfirmSignupResponse, error)
	resendFn        func(ctx context.Context, username string) (service.CodeDeliveryResponse, error)
	forgotFn        func(ctx context.Context, username string) (service.CodeDeliveryResponse, error)
	confirmForgotFn func(ctx context.Context, username, code, newPassword string) (service.ConfirmForgotPasswordResponse, error)

	logoutToken  string
	logoutCalled bool
}

func (f *fakeAuthService) Login(ctx context.Context, req service.LoginRequest) (service.LoginResponse, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeAuthService) Signup(ctx context.Context, req service.SignupRequest) (service.SignupResponse, error) {
	return f.signupFn(ctx, req)
}

func (f *fakeAuthService) ConfirmSignup(ctx context.Context, username, code string) (service.ConfirmSignupResponse, error) {
	return f.confirmFn(ctx, username, code)
}

func (f *fakeAuthService) ResendConfirmationCode(ctx context.Context, username string) (service.CodeDeliveryResponse, error) {
	return f.resendFn(ctx, username)
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, username string) (service.CodeDeliveryResponse, error) {
	return f.forgotFn(ctx, username)
}

func (f *fakeAuthService) ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) (service.ConfirmForgotPasswordResponse, error) {
	return f.confirmForgotFn(ctx, username, code, newPassword)
}

func (f *fakeAuthService) Logout(ctx context.Context, accessToken string) {
	f.logoutCalled = true
	f.logoutToken = accessToken
}

func newTestRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuth(svc, testutil.MakeNoopLogger())

	engine := gin.New()
	engine.POST("/login", h.Login)
	engine.POST("/signup", h.Signup)
	engine.POST("/confirm-signup", h.ConfirmSignup)
	engine.POST("/resend-confirmation-code", h.ResendConfirmationCode)
	engine.POST("/forgot-password", h.ForgotPassword)
	engine.POST("/confirm-forgot-password", h.ConfirmForgotPassword)
	engine.POST("/logout", h.Logout)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	body := decodeBody(t, w)
	raw, ok := body["errors"].([]any)
	require.True(t, ok, "expected errors list, got %v", body)

	fields := make(map[string]string, len(raw))
	for _, item := range raw {
		entry := item.(map[string]any)
		fields[entry["field"].(string)] = entry["message"].(string)
	}
	return fields
}

func TestAuth_Login_HTTP(t *testing.T) {
	t.Run("returns tokens on success", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(_ context.Context, req service.LoginRequest) (service.LoginResponse, error) {
				assert.Equal(t, "alice", req.Username)
				return service.LoginResponse{AccessToken: "a", IDToken: "i", RefreshToken: "r"}, nil
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/login",
			map[string]string{"username": "alice", "password": "secret123"})

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "a", body["accessToken"])
		assert.Equal(t, "i", body["idToken"])
		assert.Equal(t, "r", body["refreshToken"])
	})

	t.Run("username length boundaries", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			wantCode int
		}{
			{"3 chars accepted", "abc", http.StatusOK},
			{"30 chars accepted", strings.Repeat("a", 30), http.StatusOK},
			{"2 chars rejected", "ab", http.StatusBadRequest},
			{"31 chars rejected", strings.Repeat("a", 31), http.StatusBadRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakeAuthService{
					loginFn: func(context.Context, service.LoginRequest) (service.LoginResponse, error) {
						return service.LoginResponse{}, nil
					},
				}

				w := doJSON(t, newTestRouter(svc), http.MethodPost, "/login",
					map[string]string{"username": tt.username, "password": "secret123"})

				assert.Equal(t, tt.wantCode, w.Code)
				if tt.wantCode == http.StatusBadRequest {
					assert.Contains(t, fieldErrors(t, w), "username")
				}
			})
		}
	})

	t.Run("validation failure never reaches the use case", func(t *testing.T) {
		called := false
		svc := &fakeAuthService{
			loginFn: func(context.Context, service.LoginRequest) (service.LoginResponse, error) {
				called = true
				return service.LoginResponse{}, nil
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/login",
			map[string]string{"username": "ab", "password": "short"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
	})

	t.Run("challenge error keeps its status", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(context.Context, service.LoginRequest) (service.LoginResponse, error) {
				return service.LoginResponse{}, model.NewAPIError("New password required", http.StatusForbidden)
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/login",
			map[string]string{"username": "alice", "password": "secret123"})

		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "New password required", decodeBody(t, w)["error"])
	})

	t.Run("untagged error defaults to 400", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(context.Context, service.LoginRequest) (service.LoginResponse, error) {
				return service.LoginResponse{}, errors.New("NotAuthorizedException")
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/login",
			map[string]string{"username": "alice", "password": "secret123"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "NotAuthorizedException", decodeBody(t, w)["error"])
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		svc := &fakeAuthService{}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/login", `{"username": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuth_Signup_HTTP(t *testing.T) {
	valid := map[string]any{
		"username": "alice",
		"password": "secret123",
		"email":    "alice@example.com",
		"name":     "Alice Doe",
	}

	t.Run("201 with provider view", func(t *testing.T) {
		svc := &fakeAuthService{
			signupFn: func(_ context.Context, req service.SignupRequest) (service.SignupResponse, error) {
				assert.Nil(t, req.PhoneNumber)
				return service.SignupResponse{
					CognitoSub:    "sub-1",
					Username:      req.Username,
					UserConfirmed: false,
					Message:       "User registered successfully. Please check your email for confirmation code.",
				}, nil
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/signup", valid)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "sub-1", body["cognitoSub"])
		assert.Equal(t, false, body["userConfirmed"])
	})

	t.Run("invalid payload reports every offending field", func(t *testing.T) {
		svc := &fakeAuthService{}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/signup", map[string]any{
			"username":    "ab",
			"password":    "short",
			"email":       "not-an-email",
			"phoneNumber": "12345",
			"name":        "Al",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		fields := fieldErrors(t, w)
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "password")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "phoneNumber")
		assert.Contains(t, fields, "name")
	})

	t.Run("phone number optional", func(t *testing.T) {
		svc := &fakeAuthService{
			signupFn: func(context.Context, service.SignupRequest) (service.SignupResponse, error) {
				return service.SignupResponse{}, nil
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/signup", valid)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("phone number validated when present", func(t *testing.T) {
		svc := &fakeAuthService{}
		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}

		for phone, want := range map[string]int{
			"+15551234567":      http.StatusCreated,
			"15551234567":       http.StatusBadRequest,
			"+1555":             http.StatusBadRequest,
			"+1234567890123456": http.StatusBadRequest,
		} {
			body["phoneNumber"] = phone
			svc.signupFn = func(context.Context, service.SignupRequest) (service.SignupResponse, error) {
				return service.SignupResponse{}, nil
			}

			w := doJSON(t, newTestRouter(svc), http.MethodPost, "/signup", body)

			assert.Equal(t, want, w.Code, "phone %q", phone)
		}
	})

	t.Run("single-token name rejected", func(t *testing.T) {
		svc := &fakeAuthService{}
		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}
		body["name"] = "Alice"

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/signup", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fieldErrors(t, w), "name")
	})
}

func TestAuth_ConfirmSignup_HTTP(t *testing.T) {
	t.Run("code length must be exactly six", func(t *testing.T) {
		for code, want := range map[string]int{
			"123456":  http.StatusOK,
			"12345":   http.StatusBadRequest,
			"1234567": http.StatusBadRequest,
		} {
			svc := &fakeAuthService{
				confirmFn: func(context.Context, string, string) (service.ConfirmSignupResponse, error) {
					return service.ConfirmSignupResponse{Success: true, Message: "User confirmed successfully"}, nil
				},
			}

			w := doJSON(t, newTestRouter(svc), http.MethodPost, "/confirm-signup",
				map[string]string{"username": "alice", "confirmationCode": code})

			assert.Equal(t, want, w.Code, "code %q", code)
		}
	})

	t.Run("failed confirmation surfaces as 500", func(t *testing.T) {
		svc := &fakeAuthService{
			confirmFn: func(context.Context, string, string) (service.ConfirmSignupResponse, error) {
				return service.ConfirmSignupResponse{}, model.NewAPIError("Failed to confirm user", http.StatusInternalServerError)
			},
		}

		w := doJSON(t, newTestRouter(svc), http.MethodPost, "/confirm-signup",
			map[string]string{"username": "alice", "confirmationCode": "123456"})

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to confirm user", decodeBody(t, w)["error"])
	})
}

func TestAuth_ForgotPassword_HTTP(t *testing.T) {
	svc := &fakeAuthService{
		forgotFn: func(_ context.Context, username string) (service.CodeDeliveryResponse, error) {
			assert.Equal(t, "alice", username)
			return service.CodeDeliveryResponse{
				Success:        true,
				Message:        "Password reset code sent successfully. Please check your email or phone.",
				DeliveryMethod: "SMS",
			}, nil
		},
	}

	w := doJSON(t, newTestRouter(svc), http.MethodPost, "/forgot-password",
		map[string]string{"username": "alice"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SMS", decodeBody(t, w)["deliveryMethod"])
}

func TestAuth_ConfirmForgotPassword_HTTP(t *testing.T) {
	t.Run("password complexity enforced", func(t *testing.T) {
		for password, want := range map[string]int{
			"NewPass1!":  http.StatusOK,
			"newpass1!":  http.StatusBadRequest, // no uppercase
			"NEWPASS1!":  http.StatusBadRequest, // no lowercase
			"NewPass!!":  http.StatusBadRequest, // no digit
			"NewPass123": http.StatusBadRequest, // no special
			"Np1!":       http.StatusBadRequest, // too short
		} {
			svc := &fakeAuthService{
				confirmForgotFn: func(context.Context, string, string, string) (service.ConfirmForgotPasswordResponse, error) {
					return service.ConfirmForgotPasswordResponse{Success: true}, nil
				},
			}

			w := doJSON(t, newTestRouter(svc), http.MethodPost, "/confirm-forgot-password",
				map[string]string{
					"username":         "alice",
					"confirmationCode": "123456",
					"newPassword":      password,
				})

			assert.Equal(t, want, w.Code, "password %q", password)
		}
	})
}

func TestAuth_Logout_HTTP(t *testing.T) {
	t.Run("passes bearer token through", func(t *testing.T) {
		svc := &fakeAuthService{}
		engine := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User logged out successfully.", decodeBody(t, w)["message"])
		assert.True(t, svc.logoutCalled)
		assert.Equal(t, "some-token", svc.logoutToken)
	})

	t.Run("succeeds without a token", func(t *testing.T) {
		svc := &fakeAuthService{}
		engine := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, svc.logoutCalled)
		assert.Equal(t, "", svc.logoutToken)
	})
}

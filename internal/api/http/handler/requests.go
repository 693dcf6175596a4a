package handler

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	phonePattern     = regexp.MustCompile(`^\+\d{10,15}$`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`\d`)
	specialPattern   = regexp.MustCompile(`[@$!%*?&]`)
)

// fullName requires at least two whitespace-separated tokens.
func fullName(value any) error {
	s, _ := value.(string)
	if len(strings.Fields(s)) < 2 {
		return errors.New("must include first and last name")
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

type signupRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Name        string  `json:"name"`
}

func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.PhoneNumber,
			validation.Match(phonePattern).Error("must be + followed by 10 to 15 digits")),
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(2, 50),
			validation.By(fullName)),
	)
}

type confirmSignupRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmationCode"`
}

func (r confirmSignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.ConfirmationCode, validation.Required, validation.Length(6, 6)),
	)
}

type usernameRequest struct {
	Username string `json:"username"`
}

func (r usernameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
	)
}

type confirmForgotPasswordRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmationCode"`
	NewPassword      string `json:"newPassword"`
}

func (r confirmForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.ConfirmationCode, validation.Required, validation.Length(6, 6)),
		validation.Field(&r.NewPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.Match(lowercasePattern).Error("must contain a lowercase letter"),
			validation.Match(uppercasePattern).Error("must contain an uppercase letter"),
			validation.Match(digitPattern).Error("must contain a digit"),
			validation.Match(specialPattern).Error("must contain one of @$!%*?&")),
	)
}

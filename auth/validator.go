package auth

import (
	"chat-hub/errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	ProfilePic string `json:"profilePic" validate:"required"`
}

// Validate checks the struct tags of a request and reports the first
// violation as a validation error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if errors.As(err, &violations) && len(violations) > 0 {
		v := violations[0]
		return errors.Validation(fmt.Sprintf("%s is invalid (%s)", lowerFirst(v.Field()), v.Tag()))
	}
	return errors.ErrInvalidRequest
}

// ValidateSignup applies the tags, then the password complexity rule.
func ValidateSignup(req SignupRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return errors.Validation("fullName is invalid (required)")
	}
	if err := Validate(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

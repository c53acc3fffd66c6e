package auth

import (
	"github.com/go-playground/validator/v10"

	"svasthya/errors"
)

var validate = validator.New()

// LoginRequest is the credential pair submitted on the mentor login form.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.ErrInvalidCredentials
	}
	return nil
}

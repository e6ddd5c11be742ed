package auth

import (
	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/frahmantamala/expense-tracker/internal/user"
)

const (
	NameMaxLength     = 50
	PasswordMinLength = 6
	// bcrypt ignores everything past 72 bytes.
	PasswordMaxLength = 72
)

// RegisterDTO is the transport shape used to create an account.
type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *RegisterDTO) Validate() *internal.AppError {
	d.Email = user.NormalizeEmail(d.Email)

	v := validation.NewValidator()
	v.Field("name", d.Name).
		Required().
		MaxLength(NameMaxLength, internal.ErrCodeInvalidName)
	v.Field("email", d.Email).
		Required().
		Email(internal.ErrCodeInvalidEmail)
	v.Field("password", d.Password).
		Required().
		MinLength(PasswordMinLength, internal.ErrCodeInvalidPassword).
		Custom(func(interface{}) *internal.AppError {
			if len(d.Password) > PasswordMaxLength {
				return internal.NewValidationFieldError("password", "password must not exceed 72 bytes", internal.ErrCodeInvalidPassword)
			}
			return nil
		})
	return v.Validate()
}

// Validate checks required fields only; a wrong format is just a failed login.
func (d *LoginDTO) Validate() *internal.AppError {
	d.Email = user.NormalizeEmail(d.Email)

	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

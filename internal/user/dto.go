package user

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

type SignupDTO struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (d *SignupDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Username = strings.TrimSpace(d.Username)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
}

func (d SignupDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255).Custom(validation.Email("email"))
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(64)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("first_name", d.FirstName).MaxLength(100)
	v.Field("last_name", d.LastName).MaxLength(100)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type SignupResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
	User     *User  `json:"user"`
}

type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

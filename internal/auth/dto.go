package auth

import (
	"github.com/frahmantamala/nexus/internal/core/common/validation"
	"github.com/frahmantamala/nexus/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("email", user.NormalizeEmail(d.Email)).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

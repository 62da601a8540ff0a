package user

import (
	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/access"
	"github.com/frahmantamala/nexus/internal/core/common/validation"
)

type CreateUserDTO struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"departmentId"`
}

func (dto CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("email", NormalizeEmail(dto.Email)).Required().Email()
	v.Field("password", dto.Password).Required().MinLength(6)
	v.Field("role", dto.Role).Required().OneOf(string(access.RoleAdmin), string(access.RoleCitizen), string(access.RoleOfficer))
	if access.Role(dto.Role) == access.RoleOfficer {
		v.Field("departmentId", dto.DepartmentID).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

var (
	ErrUserNotFound       = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken         = internal.NewConflictError("User already exists with this email", internal.ErrCodeEmailTaken)
	ErrDepartmentNotFound = internal.NewValidationError("Department does not exist", internal.ErrCodeDepartmentNotFound)
	ErrCannotToggleSelf   = internal.NewValidationError("You cannot disable your own account", internal.ErrCodeInvalidField)
	ErrInvalidRoleFilter  = internal.NewValidationError("Invalid role filter", internal.ErrCodeInvalidField)
)

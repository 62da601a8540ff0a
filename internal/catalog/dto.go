package catalog

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/core/common/validation"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_]{2,32}$`)

type DepartmentDTO struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Code            string `json:"code"`
	EndpointBaseURL string `json:"endpointBaseUrl"`
	Icon            string `json:"icon"`
}

// Validate checks a department body. On update the code may be omitted.
func (d DepartmentDTO) Validate(creating bool) error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	code := v.Field("code", NormalizeCode(d.Code)).Pattern(codePattern, "code must be 2-32 characters of A-Z, 0-9 or _")
	if creating {
		code.Required()
	}
	v.Field("endpointBaseUrl", strings.TrimSpace(d.EndpointBaseURL)).Required().HTTPURL()
	v.Field("description", d.Description).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ServiceDTO struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	DepartmentID int64       `json:"departmentId"`
	EndpointPath string      `json:"endpointPath"`
	Method       string      `json:"method"`
	Icon         string      `json:"icon"`
	FormSchema   []FormField `json:"formSchema"`
}

var pathPattern = regexp.MustCompile(`^/[A-Za-z0-9/_\-.]*$`)

// Validate checks a service body. On update the department may be omitted.
func (d ServiceDTO) Validate(creating bool) error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	if creating {
		v.Field("departmentId", d.DepartmentID).Required()
	}
	v.Field("endpointPath", strings.TrimSpace(d.EndpointPath)).Required().Pattern(pathPattern, "endpointPath must start with / and contain only URL path characters")
	v.Field("method", strings.ToUpper(d.Method)).OneOf(http.MethodPost, http.MethodPut, http.MethodPatch)
	if err := v.Validate(); err != nil {
		return err
	}
	return ValidateSchema(d.FormSchema)
}

func (d ServiceDTO) method() string {
	if d.Method == "" {
		return http.MethodPost
	}
	return strings.ToUpper(d.Method)
}

type DepartmentDetail struct {
	Department *Department `json:"department"`
	Services   []*Service  `json:"services"`
}

var (
	ErrDepartmentNotFound  = internal.NewNotFoundError("Department not found", internal.ErrCodeDepartmentNotFound)
	ErrServiceNotFound     = internal.NewNotFoundError("Service not found", internal.ErrCodeServiceNotFound)
	ErrCodeTaken           = internal.NewConflictError("Department code already exists", internal.ErrCodeDepartmentCode)
	ErrCodeImmutable       = internal.NewValidationError("Department code cannot be changed", internal.ErrCodeImmutableField)
	ErrDepartmentImmutable = internal.NewValidationError("Service department cannot be changed", internal.ErrCodeImmutableField)
	ErrUnknownDepartment   = internal.NewValidationError("Department does not exist", internal.ErrCodeDepartmentNotFound)
	ErrServiceUnavailable  = internal.NewValidationError("Service is not available", internal.ErrCodeServiceUnavailable)
)

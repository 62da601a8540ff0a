package request

import (
	"strings"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/core/common/validation"
)

type SubmitRequestDTO struct {
	ServiceID int64                  `json:"serviceId"`
	Payload   map[string]interface{} `json:"payload"`
}

func (d SubmitRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("serviceId", d.ServiceID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DecisionDTO struct {
	Remarks string `json:"remarks"`
}

// Validate enforces remarks on rejection only.
func (d DecisionDTO) Validate(status string) error {
	if status == StatusRejected && strings.TrimSpace(d.Remarks) == "" {
		return internal.NewValidationFieldError("remarks", "Remarks are required when rejecting a request", internal.ErrCodeRequiredField)
	}
	return nil
}

// ListFilter narrows request listings. Limit 0 means no limit.
type ListFilter struct {
	Status string
	Limit  int
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

var (
	ErrRequestNotFound = internal.NewNotFoundError("Request not found", internal.ErrCodeRequestNotFound)
	ErrInvalidStatus   = internal.NewValidationError("Request has already been processed", internal.ErrCodeInvalidRequestStatus)
	ErrNoDepartment    = internal.NewForbiddenError("Officer is not assigned to a department", internal.ErrCodeNoDepartment)
)

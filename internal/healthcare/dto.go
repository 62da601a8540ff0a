package healthcare

import (
	"regexp"
	"strings"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/core/common/validation"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// AppointmentData is the citizen form payload carried inside a submission.
type AppointmentData struct {
	DoctorType    string `json:"doctorType"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Symptoms      string `json:"symptoms"`
}

type ProcessAppointmentDTO struct {
	RequestID    string          `json:"requestId"`
	CitizenID    string          `json:"citizenId"`
	CitizenName  string          `json:"citizenName"`
	CitizenEmail string          `json:"citizenEmail"`
	Data         AppointmentData `json:"data"`
}

// Validate checks the submission. A missing doctorType becomes general.
func (d *ProcessAppointmentDTO) Validate() error {
	d.Data.DoctorType = strings.ToLower(strings.TrimSpace(d.Data.DoctorType))
	if d.Data.DoctorType == "" {
		d.Data.DoctorType = DoctorGeneral
	}

	v := validation.NewValidator()
	v.Field("requestId", d.RequestID).Required()
	v.Field("citizenId", d.CitizenID).Required()
	v.Field("citizenName", d.CitizenName).Required()
	v.Field("citizenEmail", d.CitizenEmail).Email()
	v.Field("doctorType", d.Data.DoctorType).OneOf(DoctorTypes...)
	v.Field("preferredDate", d.Data.PreferredDate).Required().Date()
	v.Field("symptoms", d.Data.Symptoms).Required().MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type StatusUpdateDTO struct {
	RequestID   string `json:"requestId"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
	ProcessedBy string `json:"processedBy"`
}

func (d StatusUpdateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("requestId", d.RequestID).Required()
	v.Field("status", d.Status).Required().OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ProcessResult is the synchronous intake answer the gateway stores.
type ProcessResult struct {
	Success      bool                   `json:"success"`
	Status       string                 `json:"status"`
	Remarks      string                 `json:"remarks"`
	ResponseData map[string]interface{} `json:"responseData"`
}

type CreatePatientDTO struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Symptoms     string `json:"symptoms"`
}

func (d CreatePatientDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(200)
	v.Field("mobileNumber", d.MobileNumber).Required().Pattern(mobilePattern, "mobileNumber must be a 10 digit number starting with 6-9")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type WaterAlertDTO struct {
	Location string `json:"location"`
	Severity string `json:"severity"`
}

type WaterAlertResult struct {
	Service  string `json:"service"`
	Action   string `json:"action"`
	Location string `json:"location"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

const IntakeRemarks = "Your appointment request has been received and is pending review."

var (
	ErrAppointmentNotFound = internal.NewNotFoundError("Appointment not found.", internal.ErrCodeAppointmentNotFound)
	ErrCitizenRequired     = internal.NewValidationFieldError("citizenId", "citizenId is required", internal.ErrCodeRequiredField)
)

// Package healthcare is the Healthcare department microservice. It keeps
// its own appointment and patient records and only trusts the gateway
// through service tokens.
package healthcare

import (
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var Statuses = []string{StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled}

const (
	DoctorGeneral      = "general"
	DoctorSpecialist   = "specialist"
	DoctorDentist      = "dentist"
	DoctorPediatrician = "pediatrician"
)

var DoctorTypes = []string{DoctorGeneral, DoctorSpecialist, DoctorDentist, DoctorPediatrician}

const FallbackDoctor = "Dr. General Practitioner"

var doctors = map[string]string{
	DoctorGeneral:      "Dr. Sarah Johnson",
	DoctorSpecialist:   "Dr. Michael Chen",
	DoctorDentist:      "Dr. Emily White",
	DoctorPediatrician: "Dr. Robert Lee",
}

// DoctorFor returns the doctor assigned to a doctor type.
func DoctorFor(doctorType string) string {
	if name, ok := doctors[doctorType]; ok {
		return name
	}
	return FallbackDoctor
}

// Appointment is the department-side record of a gateway request.
type Appointment struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	NexusRequestID string     `json:"nexusRequestId" gorm:"column:nexus_request_id;index;not null"`
	CitizenID      string     `json:"citizenId" gorm:"column:citizen_id;index;not null"`
	CitizenName    string     `json:"citizenName" gorm:"column:citizen_name;not null"`
	CitizenEmail   string     `json:"citizenEmail" gorm:"column:citizen_email"`
	DoctorType     string     `json:"doctorType" gorm:"column:doctor_type;not null"`
	PreferredDate  string     `json:"preferredDate" gorm:"column:preferred_date"`
	PreferredTime  string     `json:"preferredTime" gorm:"column:preferred_time"`
	Symptoms       string     `json:"symptoms" gorm:"column:symptoms"`
	Status         string     `json:"status" gorm:"column:status;index;not null"`
	AssignedDoctor *string    `json:"assignedDoctor" gorm:"column:assigned_doctor"`
	Remarks        string     `json:"remarks" gorm:"column:remarks"`
	ProcessedBy    *string    `json:"processedBy" gorm:"column:processed_by"`
	ProcessedAt    *time.Time `json:"processedAt" gorm:"column:processed_at"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ApplyStatus records a gateway decision. It may run more than once for
// the same request; each call rewrites the same fields.
func (a *Appointment) ApplyStatus(status, remarks, processedBy string) {
	now := time.Now()
	a.Status = status
	a.Remarks = remarks
	if processedBy != "" {
		a.ProcessedBy = &processedBy
	} else {
		a.ProcessedBy = nil
	}
	a.ProcessedAt = &now
	if status == StatusAccepted {
		doctor := DoctorFor(a.DoctorType)
		a.AssignedDoctor = &doctor
	}
	a.UpdatedAt = now
}

type Patient struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	PatientID    string    `json:"patientId" gorm:"column:patient_id;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	MobileNumber string    `json:"mobileNumber" gorm:"column:mobile_number;index;not null"`
	Symptoms     string    `json:"symptoms" gorm:"column:symptoms"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (Patient) TableName() string {
	return "patients"
}

package request

import (
	"strconv"
	"time"

	"github.com/frahmantamala/nexus/internal/catalog"
)

const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var Statuses = []string{StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled}

// Request is a citizen's submission to one department service.
type Request struct {
	ID             int64                  `json:"id" gorm:"primaryKey"`
	CitizenID      int64                  `json:"citizenId" gorm:"column:citizen_id;index;not null"`
	ServiceID      int64                  `json:"serviceId" gorm:"column:service_id;index;not null"`
	ServiceName    string                 `json:"serviceName" gorm:"column:service_name"`
	DepartmentID   int64                  `json:"departmentId" gorm:"column:department_id;index;not null"`
	DepartmentName string                 `json:"departmentName" gorm:"column:department_name"`
	Payload        map[string]interface{} `json:"payload" gorm:"column:payload;type:text;serializer:json"`
	Status         string                 `json:"status" gorm:"column:status;index;not null"`
	OfficerRemarks string                 `json:"officerRemarks" gorm:"column:officer_remarks"`
	ResponseData   map[string]interface{} `json:"responseData,omitempty" gorm:"column:response_data;type:text;serializer:json"`
	ProcessedBy    *int64                 `json:"processedBy,omitempty" gorm:"column:processed_by"`
	ProcessedAt    *time.Time             `json:"processedAt,omitempty" gorm:"column:processed_at"`
	CreatedAt      time.Time              `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (Request) TableName() string {
	return "requests"
}

func NewRequest(citizenID int64, svc *catalog.Service, dept *catalog.Department, payload map[string]interface{}) *Request {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	now := time.Now()
	return &Request{
		CitizenID:      citizenID,
		ServiceID:      svc.ID,
		ServiceName:    svc.Name,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		Payload:        payload,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ExternalID is the identifier departments correlate on.
func (r *Request) ExternalID() string {
	return strconv.FormatInt(r.ID, 10)
}

func (r *Request) CanBeDecided() bool {
	return r.Status == StatusPending
}

func (r *Request) Accept(officerID int64, remarks string) error {
	return r.decide(StatusAccepted, officerID, remarks)
}

func (r *Request) Reject(officerID int64, remarks string) error {
	return r.decide(StatusRejected, officerID, remarks)
}

func (r *Request) decide(status string, officerID int64, remarks string) error {
	if !r.CanBeDecided() {
		return ErrInvalidStatus
	}
	now := time.Now()
	r.Status = status
	r.OfficerRemarks = remarks
	r.ProcessedBy = &officerID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	return nil
}

// MergeResponse copies department supplied fields into ResponseData.
func (r *Request) MergeResponse(data map[string]interface{}) {
	if len(data) == 0 {
		return
	}
	if r.ResponseData == nil {
		r.ResponseData = make(map[string]interface{}, len(data))
	}
	for k, v := range data {
		r.ResponseData[k] = v
	}
	r.UpdatedAt = time.Now()
}

func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

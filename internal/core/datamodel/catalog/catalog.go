package catalog

import "time"

type Department struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description"`
	Code            string    `gorm:"column:code;uniqueIndex;not null"`
	EndpointBaseURL string    `gorm:"column:endpoint_base_url;not null"`
	Icon            string    `gorm:"column:icon"`
	IsActive        bool      `gorm:"column:is_active;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

// FormField describes one input of a service's citizen-facing form.
type FormField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

type Service struct {
	ID           int64       `gorm:"primaryKey"`
	Name         string      `gorm:"column:name;not null"`
	Description  string      `gorm:"column:description"`
	DepartmentID int64       `gorm:"column:department_id;index;not null"`
	EndpointPath string      `gorm:"column:endpoint_path;not null"`
	Method       string      `gorm:"column:method;not null"`
	Icon         string      `gorm:"column:icon"`
	FormSchema   []FormField `gorm:"column:form_schema;type:text;serializer:json"`
	IsActive     bool        `gorm:"column:is_active;not null"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Service) TableName() string {
	return "services"
}

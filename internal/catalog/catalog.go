package catalog

import (
	"strings"
	"time"

	catalogDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/catalog"
)

type FormField = catalogDatamodel.FormField

type Department struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Code            string    `json:"code"`
	EndpointBaseURL string    `json:"endpointBaseUrl"`
	Icon            string    `json:"icon,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DepartmentRef is the short form embedded in service listings.
type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Service struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	DepartmentID int64          `json:"departmentId"`
	Department   *DepartmentRef `json:"department,omitempty"`
	EndpointPath string         `json:"endpointPath"`
	Method       string         `json:"method"`
	Icon         string         `json:"icon,omitempty"`
	FormSchema   []FormField    `json:"formSchema"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (d *Department) Ref() *DepartmentRef {
	return &DepartmentRef{ID: d.ID, Name: d.Name, Code: d.Code}
}

func (d *Department) SetActive(active bool) {
	d.IsActive = active
	d.UpdatedAt = time.Now()
}

func (s *Service) SetActive(active bool) {
	s.IsActive = active
	s.UpdatedAt = time.Now()
}

// URL is where citizen submissions for this service are forwarded.
func (s *Service) URL(d *Department) string {
	return strings.TrimRight(d.EndpointBaseURL, "/") + s.EndpointPath
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func DepartmentToDataModel(d *Department) *catalogDatamodel.Department {
	return &catalogDatamodel.Department{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Code:            d.Code,
		EndpointBaseURL: d.EndpointBaseURL,
		Icon:            d.Icon,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func DepartmentFromDataModel(d *catalogDatamodel.Department) *Department {
	return &Department{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Code:            d.Code,
		EndpointBaseURL: d.EndpointBaseURL,
		Icon:            d.Icon,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func ServiceToDataModel(s *Service) *catalogDatamodel.Service {
	return &catalogDatamodel.Service{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		DepartmentID: s.DepartmentID,
		EndpointPath: s.EndpointPath,
		Method:       s.Method,
		Icon:         s.Icon,
		FormSchema:   s.FormSchema,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func ServiceFromDataModel(s *catalogDatamodel.Service) *Service {
	schema := s.FormSchema
	if schema == nil {
		schema = []FormField{}
	}
	return &Service{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		DepartmentID: s.DepartmentID,
		EndpointPath: s.EndpointPath,
		Method:       s.Method,
		Icon:         s.Icon,
		FormSchema:   schema,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

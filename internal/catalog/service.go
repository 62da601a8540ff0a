package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	catalogDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/catalog"
)

type RepositoryAPI interface {
	ListDepartments(activeOnly bool) ([]*catalogDatamodel.Department, error)
	GetDepartment(id int64) (*catalogDatamodel.Department, error)
	GetDepartmentByCode(code string) (*catalogDatamodel.Department, error)
	CreateDepartment(d *catalogDatamodel.Department) error
	UpdateDepartment(d *catalogDatamodel.Department) error
	DeleteDepartment(id int64) error

	// ListServices with departmentID 0 lists every department.
	ListServices(departmentID int64, activeOnly bool) ([]*catalogDatamodel.Service, error)
	GetService(id int64) (*catalogDatamodel.Service, error)
	CreateService(s *catalogDatamodel.Service) error
	UpdateService(s *catalogDatamodel.Service) error
	DeleteService(id int64) error
}

// Catalog manages departments and the services they offer.
type Catalog struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewCatalog(repo RepositoryAPI, logger *slog.Logger) *Catalog {
	return &Catalog{
		repo:   repo,
		logger: logger,
	}
}

// ----------------- DEPARTMENTS -----------------

func (c *Catalog) ListDepartments(activeOnly bool) ([]*Department, error) {
	rows, err := c.repo.ListDepartments(activeOnly)
	if err != nil {
		c.logger.Error("failed to list departments", "error", err)
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	out := make([]*Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, DepartmentFromDataModel(row))
	}
	return out, nil
}

func (c *Catalog) ListActiveDepartments() ([]*Department, error) {
	return c.ListDepartments(true)
}

func (c *Catalog) GetDepartment(id int64) (*Department, error) {
	row, err := c.repo.GetDepartment(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if row == nil {
		return nil, ErrDepartmentNotFound
	}
	return DepartmentFromDataModel(row), nil
}

func (c *Catalog) DepartmentExists(id int64) (bool, error) {
	row, err := c.repo.GetDepartment(id)
	if err != nil {
		return false, fmt.Errorf("failed to get department: %w", err)
	}
	return row != nil, nil
}

// GetActiveDepartment returns an enabled department with its enabled services.
func (c *Catalog) GetActiveDepartment(id int64) (*DepartmentDetail, error) {
	d, err := c.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, ErrDepartmentNotFound
	}
	services, err := c.ListServices(id, true)
	if err != nil {
		return nil, err
	}
	return &DepartmentDetail{Department: d, Services: services}, nil
}

func (c *Catalog) CreateDepartment(dto DepartmentDTO) (*Department, error) {
	if err := dto.Validate(true); err != nil {
		return nil, err
	}
	code := NormalizeCode(dto.Code)

	existing, err := c.repo.GetDepartmentByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to check department code: %w", err)
	}
	if existing != nil {
		return nil, ErrCodeTaken
	}

	now := time.Now()
	d := &Department{
		Name:            strings.TrimSpace(dto.Name),
		Description:     dto.Description,
		Code:            code,
		EndpointBaseURL: strings.TrimRight(strings.TrimSpace(dto.EndpointBaseURL), "/"),
		Icon:            dto.Icon,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	row := DepartmentToDataModel(d)
	if err := c.repo.CreateDepartment(row); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	c.logger.Info("department created", "department_id", row.ID, "code", code)
	return DepartmentFromDataModel(row), nil
}

// UpdateDepartment replaces the editable fields. The code never changes.
func (c *Catalog) UpdateDepartment(id int64, dto DepartmentDTO) (*Department, error) {
	if err := dto.Validate(false); err != nil {
		return nil, err
	}
	d, err := c.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	if code := NormalizeCode(dto.Code); code != "" && code != d.Code {
		return nil, ErrCodeImmutable
	}

	d.Name = strings.TrimSpace(dto.Name)
	d.Description = dto.Description
	d.EndpointBaseURL = strings.TrimRight(strings.TrimSpace(dto.EndpointBaseURL), "/")
	d.Icon = dto.Icon
	d.UpdatedAt = time.Now()

	if err := c.repo.UpdateDepartment(DepartmentToDataModel(d)); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return d, nil
}

func (c *Catalog) SetDepartmentActive(id int64, active bool) (*Department, error) {
	d, err := c.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	d.SetActive(active)
	if err := c.repo.UpdateDepartment(DepartmentToDataModel(d)); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	c.logger.Info("department toggled", "department_id", id, "is_active", active)
	return d, nil
}

func (c *Catalog) DeleteDepartment(id int64) error {
	if _, err := c.GetDepartment(id); err != nil {
		return err
	}
	if err := c.repo.DeleteDepartment(id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	c.logger.Info("department deleted", "department_id", id)
	return nil
}

// ----------------- SERVICES -----------------

// ListServices lists services of one department, or all when departmentID is 0.
// Each service carries a reference to its department.
func (c *Catalog) ListServices(departmentID int64, activeOnly bool) ([]*Service, error) {
	rows, err := c.repo.ListServices(departmentID, activeOnly)
	if err != nil {
		c.logger.Error("failed to list services", "error", err)
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	refs := make(map[int64]*DepartmentRef)
	out := make([]*Service, 0, len(rows))
	for _, row := range rows {
		s := ServiceFromDataModel(row)
		ref, ok := refs[s.DepartmentID]
		if !ok {
			if d, err := c.repo.GetDepartment(s.DepartmentID); err == nil && d != nil {
				ref = DepartmentFromDataModel(d).Ref()
			}
			refs[s.DepartmentID] = ref
		}
		s.Department = ref
		out = append(out, s)
	}
	return out, nil
}

func (c *Catalog) GetService(id int64) (*Service, error) {
	row, err := c.repo.GetService(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if row == nil {
		return nil, ErrServiceNotFound
	}
	return ServiceFromDataModel(row), nil
}

// GetActiveService hides disabled services and services of disabled departments.
func (c *Catalog) GetActiveService(id int64) (*Service, error) {
	s, d, err := c.ResolveForSubmission(id)
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	s.Department = d.Ref()
	return s, nil
}

// ResolveForSubmission returns a service and its department when both accept requests.
func (c *Catalog) ResolveForSubmission(serviceID int64) (*Service, *Department, error) {
	s, err := c.GetService(serviceID)
	if err != nil {
		return nil, nil, err
	}
	row, err := c.repo.GetDepartment(s.DepartmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get department: %w", err)
	}
	if row == nil || !s.IsActive || !row.IsActive {
		return nil, nil, ErrServiceUnavailable
	}
	return s, DepartmentFromDataModel(row), nil
}

func (c *Catalog) CreateService(dto ServiceDTO) (*Service, error) {
	if err := dto.Validate(true); err != nil {
		return nil, err
	}
	ok, err := c.DepartmentExists(dto.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownDepartment
	}

	now := time.Now()
	s := &Service{
		Name:         strings.TrimSpace(dto.Name),
		Description:  dto.Description,
		DepartmentID: dto.DepartmentID,
		EndpointPath: strings.TrimSpace(dto.EndpointPath),
		Method:       dto.method(),
		Icon:         dto.Icon,
		FormSchema:   normalizeSchema(dto.FormSchema),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	row := ServiceToDataModel(s)
	if err := c.repo.CreateService(row); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	c.logger.Info("service created", "service_id", row.ID, "department_id", row.DepartmentID)
	return ServiceFromDataModel(row), nil
}

// UpdateService replaces the editable fields. The department never changes.
func (c *Catalog) UpdateService(id int64, dto ServiceDTO) (*Service, error) {
	if err := dto.Validate(false); err != nil {
		return nil, err
	}
	s, err := c.GetService(id)
	if err != nil {
		return nil, err
	}
	if dto.DepartmentID != 0 && dto.DepartmentID != s.DepartmentID {
		return nil, ErrDepartmentImmutable
	}

	s.Name = strings.TrimSpace(dto.Name)
	s.Description = dto.Description
	s.EndpointPath = strings.TrimSpace(dto.EndpointPath)
	s.Method = dto.method()
	s.Icon = dto.Icon
	s.FormSchema = normalizeSchema(dto.FormSchema)
	s.UpdatedAt = time.Now()

	if err := c.repo.UpdateService(ServiceToDataModel(s)); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return s, nil
}

func (c *Catalog) SetServiceActive(id int64, active bool) (*Service, error) {
	s, err := c.GetService(id)
	if err != nil {
		return nil, err
	}
	s.SetActive(active)
	if err := c.repo.UpdateService(ServiceToDataModel(s)); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	c.logger.Info("service toggled", "service_id", id, "is_active", active)
	return s, nil
}

func (c *Catalog) DeleteService(id int64) error {
	if _, err := c.GetService(id); err != nil {
		return err
	}
	if err := c.repo.DeleteService(id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	c.logger.Info("service deleted", "service_id", id)
	return nil
}

func normalizeSchema(fields []FormField) []FormField {
	out := make([]FormField, 0, len(fields))
	for _, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		if f.Type == "" {
			f.Type = FieldText
		}
		out = append(out, f)
	}
	return out
}

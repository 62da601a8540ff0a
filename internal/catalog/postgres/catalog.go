package postgres

import (
	"errors"

	"github.com/frahmantamala/nexus/internal/catalog"
	catalogDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/catalog"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) catalog.RepositoryAPI {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListDepartments(activeOnly bool) ([]*catalogDatamodel.Department, error) {
	var departments []*catalogDatamodel.Department
	q := r.db.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&departments).Error
	return departments, err
}

func (r *CatalogRepository) GetDepartment(id int64) (*catalogDatamodel.Department, error) {
	var d catalogDatamodel.Department
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) GetDepartmentByCode(code string) (*catalogDatamodel.Department, error) {
	var d catalogDatamodel.Department
	err := r.db.Where("code = ?", code).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) CreateDepartment(d *catalogDatamodel.Department) error {
	return r.db.Create(d).Error
}

func (r *CatalogRepository) UpdateDepartment(d *catalogDatamodel.Department) error {
	return r.db.Save(d).Error
}

// DeleteDepartment removes the department together with its services.
func (r *CatalogRepository) DeleteDepartment(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("department_id = ?", id).Delete(&catalogDatamodel.Service{}).Error; err != nil {
			return err
		}
		return tx.Delete(&catalogDatamodel.Department{}, id).Error
	})
}

func (r *CatalogRepository) ListServices(departmentID int64, activeOnly bool) ([]*catalogDatamodel.Service, error) {
	var services []*catalogDatamodel.Service
	q := r.db.Order("name ASC")
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&services).Error
	return services, err
}

func (r *CatalogRepository) GetService(id int64) (*catalogDatamodel.Service, error) {
	var s catalogDatamodel.Service
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepository) CreateService(s *catalogDatamodel.Service) error {
	return r.db.Create(s).Error
}

func (r *CatalogRepository) UpdateService(s *catalogDatamodel.Service) error {
	return r.db.Save(s).Error
}

func (r *CatalogRepository) DeleteService(id int64) error {
	return r.db.Delete(&catalogDatamodel.Service{}, id).Error
}

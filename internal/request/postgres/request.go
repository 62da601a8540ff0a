package postgres

import (
	"errors"

	"github.com/frahmantamala/nexus/internal/request"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *request.Request) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id int64) (*request.Request, error) {
	var req request.Request
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) ListByCitizen(citizenID int64, filter request.ListFilter) ([]*request.Request, error) {
	return r.list(r.db.Where("citizen_id = ?", citizenID), filter)
}

func (r *RequestRepository) ListByDepartment(departmentID int64, filter request.ListFilter) ([]*request.Request, error) {
	return r.list(r.db.Where("department_id = ?", departmentID), filter)
}

func (r *RequestRepository) ListRecent(limit int) ([]*request.Request, error) {
	return r.list(r.db, request.ListFilter{Limit: limit})
}

func (r *RequestRepository) list(q *gorm.DB, filter request.ListFilter) ([]*request.Request, error) {
	var requests []*request.Request
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) Update(req *request.Request) error {
	return r.db.Save(req).Error
}

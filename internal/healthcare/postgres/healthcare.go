package postgres

import (
	"errors"

	"github.com/frahmantamala/nexus/internal/healthcare"
	"gorm.io/gorm"
)

type HealthcareRepository struct {
	db *gorm.DB
}

func NewHealthcareRepository(db *gorm.DB) healthcare.Repository {
	return &HealthcareRepository{db: db}
}

func (r *HealthcareRepository) CreateAppointment(a *healthcare.Appointment) error {
	return r.db.Create(a).Error
}

func (r *HealthcareRepository) GetAppointment(id int64) (*healthcare.Appointment, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetAppointmentByRequestID returns the newest appointment for a gateway request.
func (r *HealthcareRepository) GetAppointmentByRequestID(requestID string) (*healthcare.Appointment, error) {
	return r.first(r.db.Where("nexus_request_id = ?", requestID).Order("id DESC"))
}

func (r *HealthcareRepository) first(q *gorm.DB) (*healthcare.Appointment, error) {
	var a healthcare.Appointment
	err := q.First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *HealthcareRepository) ListAppointments(status string, limit int) ([]*healthcare.Appointment, error) {
	var appointments []*healthcare.Appointment
	q := r.db.Order("created_at DESC").Order("id DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&appointments).Error
	return appointments, err
}

func (r *HealthcareRepository) ListAppointmentsByCitizen(citizenID string, limit int) ([]*healthcare.Appointment, error) {
	var appointments []*healthcare.Appointment
	err := r.db.Where("citizen_id = ?", citizenID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&appointments).Error
	return appointments, err
}

func (r *HealthcareRepository) UpdateAppointment(a *healthcare.Appointment) error {
	return r.db.Save(a).Error
}

func (r *HealthcareRepository) CreatePatient(p *healthcare.Patient) error {
	return r.db.Create(p).Error
}

func (r *HealthcareRepository) ListPatients() ([]*healthcare.Patient, error) {
	var patients []*healthcare.Patient
	err := r.db.Order("created_at DESC").Order("id DESC").Find(&patients).Error
	return patients, err
}

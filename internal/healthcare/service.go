package healthcare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/nexus/internal"
	"github.com/google/uuid"
)

const (
	defaultListLimit    = 50
	maxListLimit        = 200
	citizenHistoryLimit = 20
)

type Repository interface {
	CreateAppointment(a *Appointment) error
	GetAppointment(id int64) (*Appointment, error)
	GetAppointmentByRequestID(requestID string) (*Appointment, error)
	ListAppointments(status string, limit int) ([]*Appointment, error)
	ListAppointmentsByCitizen(citizenID string, limit int) ([]*Appointment, error)
	UpdateAppointment(a *Appointment) error

	CreatePatient(p *Patient) error
	ListPatients() ([]*Patient, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ProcessAppointment stores an incoming gateway request. Intake is always PENDING.
func (s *Service) ProcessAppointment(ctx context.Context, dto ProcessAppointmentDTO) (*ProcessResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a := &Appointment{
		NexusRequestID: dto.RequestID,
		CitizenID:      dto.CitizenID,
		CitizenName:    strings.TrimSpace(dto.CitizenName),
		CitizenEmail:   dto.CitizenEmail,
		DoctorType:     dto.Data.DoctorType,
		PreferredDate:  dto.Data.PreferredDate,
		PreferredTime:  dto.Data.PreferredTime,
		Symptoms:       dto.Data.Symptoms,
		Status:         StatusPending,
	}
	if err := s.repo.CreateAppointment(a); err != nil {
		return nil, internal.NewInternalError("failed to save appointment", err)
	}
	s.logger.InfoContext(ctx, "appointment received",
		"appointment_id", a.ID,
		"nexus_request_id", a.NexusRequestID,
		"doctor_type", a.DoctorType)

	return &ProcessResult{
		Success: true,
		Status:  StatusPending,
		Remarks: IntakeRemarks,
		ResponseData: map[string]interface{}{
			"appointmentId": a.ID,
			"doctorType":    a.DoctorType,
			"preferredDate": a.PreferredDate,
			"preferredTime": a.PreferredTime,
		},
	}, nil
}

func (s *Service) UpdateAppointmentStatus(ctx context.Context, dto StatusUpdateDTO) (*Appointment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	a, err := s.repo.GetAppointmentByRequestID(dto.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}

	a.ApplyStatus(dto.Status, dto.Remarks, dto.ProcessedBy)
	if err := s.repo.UpdateAppointment(a); err != nil {
		return nil, internal.NewInternalError("failed to update appointment", err)
	}
	s.logger.InfoContext(ctx, "appointment status updated",
		"appointment_id", a.ID,
		"nexus_request_id", a.NexusRequestID,
		"status", a.Status)
	return a, nil
}

func (s *Service) ListAppointments(status string, limit int) ([]*Appointment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	appointments, err := s.repo.ListAppointments(status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) ListCitizenAppointments(citizenID string) ([]*Appointment, error) {
	if strings.TrimSpace(citizenID) == "" {
		return nil, ErrCitizenRequired
	}
	appointments, err := s.repo.ListAppointmentsByCitizen(citizenID, citizenHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) GetAppointment(id int64) (*Appointment, error) {
	a, err := s.repo.GetAppointment(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (s *Service) CreatePatient(dto CreatePatientDTO) (*Patient, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		PatientID:    uuid.NewString(),
		Name:         strings.TrimSpace(dto.Name),
		MobileNumber: dto.MobileNumber,
		Symptoms:     dto.Symptoms,
	}
	if err := s.repo.CreatePatient(p); err != nil {
		return nil, internal.NewInternalError("failed to save patient", err)
	}
	s.logger.Info("patient registered", "patient_id", p.PatientID)
	return p, nil
}

func (s *Service) ListPatients() ([]*Patient, error) {
	patients, err := s.repo.ListPatients()
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// WaterAlert acknowledges a cross-department alert. Nothing is stored.
func (s *Service) WaterAlert(ctx context.Context, dto WaterAlertDTO) *WaterAlertResult {
	s.logger.WarnContext(ctx, "water shortage alert received", "location", dto.Location, "severity", dto.Severity)
	return &WaterAlertResult{
		Service:  "healthcare",
		Action:   "hospitals_notified",
		Location: dto.Location,
		Severity: dto.Severity,
		Message:  fmt.Sprintf("Hospitals alerted about water shortage in %s", dto.Location),
	}
}

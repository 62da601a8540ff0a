package healthcare

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/nexus/internal/servicejwt"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ProcessAppointment(ctx context.Context, dto ProcessAppointmentDTO) (*ProcessResult, error)
	UpdateAppointmentStatus(ctx context.Context, dto StatusUpdateDTO) (*Appointment, error)
	ListAppointments(status string, limit int) ([]*Appointment, error)
	ListCitizenAppointments(citizenID string) ([]*Appointment, error)
	GetAppointment(id int64) (*Appointment, error)
	CreatePatient(dto CreatePatientDTO) (*Patient, error)
	ListPatients() ([]*Patient, error)
	WaterAlert(ctx context.Context, dto WaterAlertDTO) *WaterAlertResult
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ProcessAppointment handles POST /internal/appointments
func (h *Handler) ProcessAppointment(w http.ResponseWriter, r *http.Request) {
	var dto ProcessAppointmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	result, err := h.Service.ProcessAppointment(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("ProcessAppointment: failed", "request_id", dto.RequestID, "error", err)
		h.HandleServiceError(w, err, "Failed to process appointment request.")
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// UpdateAppointmentStatus handles PATCH /internal/appointments/status
func (h *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var dto StatusUpdateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	a, err := h.Service.UpdateAppointmentStatus(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to update appointment status.")
		return
	}
	h.WriteMessage(w, http.StatusOK, "Appointment status updated.", a)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	appointments, err := h.Service.ListAppointments(q.Get("status"), limit)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch appointments.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, nonNil(appointments))
}

// ListCitizenAppointments reads the citizen from the x-citizen-id header,
// falling back to the citizenId query parameter.
func (h *Handler) ListCitizenAppointments(w http.ResponseWriter, r *http.Request) {
	citizenID := r.URL.Query().Get("citizenId")
	if caller, ok := servicejwt.CallerFromContext(r.Context()); ok && caller.CitizenID != "" {
		citizenID = caller.CitizenID
	}
	appointments, err := h.Service.ListCitizenAppointments(citizenID)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch appointments.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, nonNil(appointments))
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	a, err := h.Service.GetAppointment(id)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch appointment.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, a)
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var dto CreatePatientDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	p, err := h.Service.CreatePatient(dto)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to register patient.")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, p)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Service.ListPatients()
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch patients.")
		return
	}
	if patients == nil {
		patients = []*Patient{}
	}
	h.WriteSuccess(w, http.StatusOK, patients)
}

func (h *Handler) WaterAlert(w http.ResponseWriter, r *http.Request) {
	var dto WaterAlertDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.WaterAlert(r.Context(), dto))
}

func nonNil(appointments []*Appointment) []*Appointment {
	if appointments == nil {
		return []*Appointment{}
	}
	return appointments
}

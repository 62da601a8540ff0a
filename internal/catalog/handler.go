package catalog

import (
	"net/http"

	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListDepartments(activeOnly bool) ([]*Department, error)
	GetActiveDepartment(id int64) (*DepartmentDetail, error)
	CreateDepartment(dto DepartmentDTO) (*Department, error)
	UpdateDepartment(id int64, dto DepartmentDTO) (*Department, error)
	SetDepartmentActive(id int64, active bool) (*Department, error)
	DeleteDepartment(id int64) error

	ListServices(departmentID int64, activeOnly bool) ([]*Service, error)
	GetActiveService(id int64) (*Service, error)
	CreateService(dto ServiceDTO) (*Service, error)
	UpdateService(id int64, dto ServiceDTO) (*Service, error)
	SetServiceActive(id int64, active bool) (*Service, error)
	DeleteService(id int64) error
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

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := h.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		h.HandleServiceError(w, err, "")
		return 0, false
	}
	return id, true
}

// ----------------- ADMIN -----------------

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(false)
	if err != nil {
		h.Logger.Error("ListDepartments: failed", "error", err)
		h.HandleServiceError(w, err, "Failed to fetch departments.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, departments)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto DepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	d, err := h.Service.CreateDepartment(dto)
	if err != nil {
		h.Logger.Warn("CreateDepartment: failed", "code", dto.Code, "error", err)
		h.HandleServiceError(w, err, "Failed to create department.")
		return
	}
	h.WriteMessage(w, http.StatusCreated, "Department created successfully.", d)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var dto DepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	d, err := h.Service.UpdateDepartment(id, dto)
	if err != nil {
		h.Logger.Warn("UpdateDepartment: failed", "department_id", id, "error", err)
		h.HandleServiceError(w, err, "Failed to update department.")
		return
	}
	h.WriteMessage(w, http.StatusOK, "Department updated successfully.", d)
}

func (h *Handler) EnableDepartment(w http.ResponseWriter, r *http.Request) {
	h.setDepartmentActive(w, r, true)
}

func (h *Handler) DisableDepartment(w http.ResponseWriter, r *http.Request) {
	h.setDepartmentActive(w, r, false)
}

func (h *Handler) setDepartmentActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	d, err := h.Service.SetDepartmentActive(id, active)
	if err != nil {
		h.Logger.Warn("SetDepartmentActive: failed", "department_id", id, "active", active, "error", err)
		h.HandleServiceError(w, err, "Failed to update department.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, d)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteDepartment(id); err != nil {
		h.Logger.Warn("DeleteDepartment: failed", "department_id", id, "error", err)
		h.HandleServiceError(w, err, "Failed to delete department.")
		return
	}
	h.WriteMessage(w, http.StatusOK, "Department deleted successfully.", nil)
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.ListServices(0, false)
	if err != nil {
		h.Logger.Error("ListServices: failed", "error", err)
		h.HandleServiceError(w, err, "Failed to fetch services.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, services)
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var dto ServiceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	s, err := h.Service.CreateService(dto)
	if err != nil {
		h.Logger.Warn("CreateService: failed", "department_id", dto.DepartmentID, "error", err)
		h.HandleServiceError(w, err, "Failed to create service.")
		return
	}
	h.WriteMessage(w, http.StatusCreated, "Service created successfully.", s)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var dto ServiceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	s, err := h.Service.UpdateService(id, dto)
	if err != nil {
		h.Logger.Warn("UpdateService: failed", "service_id", id, "error", err)
		h.HandleServiceError(w, err, "Failed to update service.")
		return
	}
	h.WriteMessage(w, http.StatusOK, "Service updated successfully.", s)
}

func (h *Handler) EnableService(w http.ResponseWriter, r *http.Request) {
	h.setServiceActive(w, r, true)
}

func (h *Handler) DisableService(w http.ResponseWriter, r *http.Request) {
	h.setServiceActive(w, r, false)
}

func (h *Handler) setServiceActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	s, err := h.Service.SetServiceActive(id, active)
	if err != nil {
		h.Logger.Warn("SetServiceActive: failed", "service_id", id, "active", active, "error", err)
		h.HandleServiceError(w, err, "Failed to update service.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, s)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteService(id); err != nil {
		h.Logger.Warn("DeleteService: failed", "service_id", id, "error", err)
		h.HandleServiceError(w, err, "Failed to delete service.")
		return
	}
	h.WriteMessage(w, http.StatusOK, "Service deleted successfully.", nil)
}

// ----------------- CITIZEN -----------------

func (h *Handler) ListActiveDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(true)
	if err != nil {
		h.Logger.Error("ListActiveDepartments: failed", "error", err)
		h.HandleServiceError(w, err, "Failed to fetch departments.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, departments)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.Service.GetActiveDepartment(id)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch department.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, detail)
}

func (h *Handler) GetDepartmentServices(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.Service.GetActiveDepartment(id)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch services.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, detail.Services)
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	s, err := h.Service.GetActiveService(id)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch service.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, s)
}

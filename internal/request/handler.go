package request

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, citizen *internal.Principal, dto SubmitRequestDTO) (*Request, error)
	ListMine(citizen *internal.Principal, filter ListFilter) ([]*Request, error)
	GetMine(citizen *internal.Principal, id int64) (*Request, error)
	RecentAppointments(ctx context.Context, citizen *internal.Principal) ([]map[string]interface{}, error)

	ListForDepartment(officer *internal.Principal, filter ListFilter) ([]*Request, error)
	GetForDepartment(officer *internal.Principal, id int64) (*Request, error)
	Accept(ctx context.Context, officer *internal.Principal, id int64, dto DecisionDTO) (*Request, error)
	Reject(ctx context.Context, officer *internal.Principal, id int64, dto DecisionDTO) (*Request, error)
	DepartmentStats(ctx context.Context, officer *internal.Principal) (*StatusCounts, error)

	AdminStats(ctx context.Context) (*AdminStats, error)
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

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*internal.Principal, bool) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return p, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := h.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		h.HandleServiceError(w, err, "")
		return 0, false
	}
	return id, true
}

func filterFromQuery(r *http.Request) ListFilter {
	q := r.URL.Query()
	f := ListFilter{Status: q.Get("status")}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Limit = n
		}
	}
	return f
}

// ----------------- CITIZEN -----------------

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	citizen, ok := h.principal(w, r)
	if !ok {
		return
	}
	var dto SubmitRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}
	req, err := h.Service.Submit(r.Context(), citizen, dto)
	if err != nil {
		h.Logger.Warn("SubmitRequest: failed", "service_id", dto.ServiceID, "error", err)
		h.HandleServiceError(w, err, "Failed to submit request.")
		return
	}
	h.WriteMessage(w, http.StatusCreated, "Request submitted successfully.", req)
}

func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	citizen, ok := h.principal(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.ListMine(citizen, filterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch requests.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, nonNil(requests))
}

func (h *Handler) GetMyRequest(w http.ResponseWriter, r *http.Request) {
	citizen, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, err := h.Service.GetMine(citizen, id)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch request.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, req)
}

func (h *Handler) RecentAppointments(w http.ResponseWriter, r *http.Request) {
	citizen, ok := h.principal(w, r)
	if !ok {
		return
	}
	records, err := h.Service.RecentAppointments(r.Context(), citizen)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch appointments.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, records)
}

// ----------------- OFFICER -----------------

func (h *Handler) ListDepartmentRequests(w http.ResponseWriter, r *http.Request) {
	officer, ok := h.principal(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.ListForDepartment(officer, filterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch requests.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, nonNil(requests))
}

func (h *Handler) GetDepartmentRequest(w http.ResponseWriter, r *http.Request) {
	officer, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, err := h.Service.GetForDepartment(officer, id)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch request.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, req)
}

func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusAccepted)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	officer, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var dto DecisionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}

	var req *Request
	var err error
	if status == StatusAccepted {
		req, err = h.Service.Accept(r.Context(), officer, id, dto)
	} else {
		req, err = h.Service.Reject(r.Context(), officer, id, dto)
	}
	if err != nil {
		h.Logger.Warn("decide: failed", "request_id", id, "status", status, "error", err)
		h.HandleServiceError(w, err, "Failed to update request.")
		return
	}

	message := "Request accepted."
	if status == StatusRejected {
		message = "Request rejected."
	}
	h.WriteMessage(w, http.StatusOK, message, req)
}

func (h *Handler) OfficerStats(w http.ResponseWriter, r *http.Request) {
	officer, ok := h.principal(w, r)
	if !ok {
		return
	}
	counts, err := h.Service.DepartmentStats(r.Context(), officer)
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch stats.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, counts)
}

// ----------------- ADMIN -----------------

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.AdminStats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err, "Failed to fetch stats.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, stats)
}

func nonNil(requests []*Request) []*Request {
	if requests == nil {
		return []*Request{}
	}
	return requests
}

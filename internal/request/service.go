package request

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/catalog"
	"github.com/frahmantamala/nexus/internal/core/events"
	"github.com/frahmantamala/nexus/internal/deptclient"
)

const (
	defaultOfficerLimit = 50
	maxListLimit        = 200
	recentRequestsLimit = 5
)

type Repository interface {
	Create(r *Request) error
	GetByID(id int64) (*Request, error)
	ListByCitizen(citizenID int64, filter ListFilter) ([]*Request, error)
	ListByDepartment(departmentID int64, filter ListFilter) ([]*Request, error)
	ListRecent(limit int) ([]*Request, error)
	Update(r *Request) error
}

type CatalogAPI interface {
	ResolveForSubmission(serviceID int64) (*catalog.Service, *catalog.Department, error)
	GetService(id int64) (*catalog.Service, error)
	GetDepartment(id int64) (*catalog.Department, error)
	ListActiveDepartments() ([]*catalog.Department, error)
}

// DepartmentGateway is the outbound side towards department microservices.
type DepartmentGateway interface {
	Submit(ctx context.Context, target deptclient.Target, sub deptclient.Submission) (*deptclient.SubmissionResult, error)
	RelayStatus(ctx context.Context, target deptclient.Target, update deptclient.StatusUpdate) (*deptclient.StatusResult, error)
	CitizenAppointments(ctx context.Context, target deptclient.Target, citizenID string) ([]map[string]interface{}, error)
}

type Service struct {
	repo        Repository
	catalog     CatalogAPI
	departments DepartmentGateway
	stats       StatsReader
	events      events.Publisher
	logger      *slog.Logger
}

func NewService(repo Repository, catalog CatalogAPI, departments DepartmentGateway, stats StatsReader, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		catalog:     catalog,
		departments: departments,
		stats:       stats,
		events:      publisher,
		logger:      logger,
	}
}

// ----------------- CITIZEN -----------------

// Submit stores a new PENDING request and forwards it to the owning
// department. Forwarding is best effort; the request survives a failure.
func (s *Service) Submit(ctx context.Context, citizen *internal.Principal, dto SubmitRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	svc, dept, err := s.catalog.ResolveForSubmission(dto.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidatePayload(svc.FormSchema, dto.Payload); err != nil {
		return nil, err
	}

	req := NewRequest(citizen.ID, svc, dept, dto.Payload)
	if err := s.repo.Create(req); err != nil {
		return nil, internal.NewInternalError("failed to save request", err)
	}
	s.logger.Info("request submitted", "request_id", req.ID, "service_id", svc.ID, "department", dept.Code)

	forwarded := s.forward(ctx, citizen, req, svc, dept)
	s.publish(ctx, events.NewRequestSubmittedEvent(req.ID, req.CitizenID, req.DepartmentID, req.ServiceName, forwarded))
	return req, nil
}

func (s *Service) forward(ctx context.Context, citizen *internal.Principal, req *Request, svc *catalog.Service, dept *catalog.Department) bool {
	target := deptclient.Target{Code: dept.Code, BaseURL: dept.EndpointBaseURL, Path: svc.EndpointPath, Method: svc.Method}
	result, err := s.departments.Submit(ctx, target, deptclient.Submission{
		RequestID:    req.ExternalID(),
		CitizenID:    strconv.FormatInt(citizen.ID, 10),
		CitizenName:  citizen.Name,
		CitizenEmail: citizen.Email,
		Data:         req.Payload,
	})
	if err != nil {
		s.logger.Warn("request forwarding failed, request stays pending",
			"request_id", req.ID,
			"department", dept.Code,
			"error", err)
		return false
	}

	data := make(map[string]interface{}, len(result.ResponseData)+1)
	for k, v := range result.ResponseData {
		data[k] = v
	}
	if result.Remarks != "" {
		data["remarks"] = result.Remarks
	}
	if result.Status != "" && result.Status != StatusPending {
		s.logger.Warn("department reported a non-pending status on intake, ignoring",
			"request_id", req.ID,
			"department_status", result.Status)
	}

	req.MergeResponse(data)
	if err := s.repo.Update(req); err != nil {
		s.logger.Error("failed to store department response", "request_id", req.ID, "error", err)
	}
	return true
}

func (s *Service) ListMine(citizen *internal.Principal, filter ListFilter) ([]*Request, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListByCitizen(citizen.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// GetMine hides requests of other citizens behind a not found.
func (s *Service) GetMine(citizen *internal.Principal, id int64) (*Request, error) {
	req, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if req.CitizenID != citizen.ID {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// RecentAppointments merges what every active department holds for the
// citizen. Departments that fail are skipped.
func (s *Service) RecentAppointments(ctx context.Context, citizen *internal.Principal) ([]map[string]interface{}, error) {
	departments, err := s.catalog.ListActiveDepartments()
	if err != nil {
		return nil, err
	}

	citizenID := strconv.FormatInt(citizen.ID, 10)
	merged := make([]map[string]interface{}, 0)
	for _, dept := range departments {
		records, err := s.departments.CitizenAppointments(ctx, deptclient.Target{Code: dept.Code, BaseURL: dept.EndpointBaseURL}, citizenID)
		if err != nil {
			s.logger.Warn("skipping department in recent appointments", "department", dept.Code, "error", err)
			continue
		}
		for _, rec := range records {
			rec["department"] = dept.Name
			rec["departmentCode"] = dept.Code
			merged = append(merged, rec)
		}
	}
	return merged, nil
}

// ----------------- OFFICER -----------------

func (s *Service) ListForDepartment(officer *internal.Principal, filter ListFilter) ([]*Request, error) {
	deptID, err := departmentOf(officer)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultOfficerLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	requests, err := s.repo.ListByDepartment(deptID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *Service) GetForDepartment(officer *internal.Principal, id int64) (*Request, error) {
	deptID, err := departmentOf(officer)
	if err != nil {
		return nil, err
	}
	req, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if req.DepartmentID != deptID {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *Service) Accept(ctx context.Context, officer *internal.Principal, id int64, dto DecisionDTO) (*Request, error) {
	return s.decide(ctx, officer, id, StatusAccepted, dto)
}

func (s *Service) Reject(ctx context.Context, officer *internal.Principal, id int64, dto DecisionDTO) (*Request, error) {
	return s.decide(ctx, officer, id, StatusRejected, dto)
}

// decide applies the one-way PENDING transition, then relays it to the
// department. A failed relay is logged and the local decision stands.
func (s *Service) decide(ctx context.Context, officer *internal.Principal, id int64, status string, dto DecisionDTO) (*Request, error) {
	if err := dto.Validate(status); err != nil {
		return nil, err
	}
	req, err := s.GetForDepartment(officer, id)
	if err != nil {
		return nil, err
	}

	if status == StatusAccepted {
		err = req.Accept(officer.ID, dto.Remarks)
	} else {
		err = req.Reject(officer.ID, dto.Remarks)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(req); err != nil {
		return nil, internal.NewInternalError("failed to update request", err)
	}
	s.logger.Info("request decided", "request_id", req.ID, "status", req.Status, "officer_id", officer.ID)

	relayed := s.relay(ctx, officer, req)
	s.publish(ctx, events.NewRequestDecidedEvent(req.ID, req.DepartmentID, officer.ID, req.Status, relayed))
	return req, nil
}

func (s *Service) relay(ctx context.Context, officer *internal.Principal, req *Request) bool {
	svc, err := s.catalog.GetService(req.ServiceID)
	if err != nil {
		s.logger.Warn("status relay skipped: service lookup failed", "request_id", req.ID, "error", err)
		return false
	}
	dept, err := s.catalog.GetDepartment(req.DepartmentID)
	if err != nil {
		s.logger.Warn("status relay skipped: department lookup failed", "request_id", req.ID, "error", err)
		return false
	}

	target := deptclient.Target{Code: dept.Code, BaseURL: dept.EndpointBaseURL, Path: svc.EndpointPath}
	result, err := s.departments.RelayStatus(ctx, target, deptclient.StatusUpdate{
		RequestID:   req.ExternalID(),
		Status:      req.Status,
		Remarks:     req.OfficerRemarks,
		ProcessedBy: officer.Name,
	})
	if err != nil {
		s.logger.Warn("status relay failed, keeping local decision", "request_id", req.ID, "department", dept.Code, "error", err)
		return false
	}

	merged := relayedFields(result.Data)
	if len(merged) > 0 {
		req.MergeResponse(merged)
		if err := s.repo.Update(req); err != nil {
			s.logger.Error("failed to store relayed fields", "request_id", req.ID, "error", err)
		}
	}
	return true
}

// relayedFields picks what a department record adds to the citizen view.
func relayedFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	if v, ok := data["assignedDoctor"]; ok && v != nil {
		out["assignedDoctor"] = v
	}
	if nested, ok := data["responseData"].(map[string]interface{}); ok {
		for k, v := range nested {
			out[k] = v
		}
	}
	return out
}

func (s *Service) DepartmentStats(ctx context.Context, officer *internal.Principal) (*StatusCounts, error) {
	deptID, err := departmentOf(officer)
	if err != nil {
		return nil, err
	}
	counts, err := s.stats.CountRequests(ctx, deptID)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	return &counts, nil
}

// ----------------- ADMIN -----------------

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	var out AdminStats
	var err error

	if out.Departments, err = s.stats.CountDepartments(ctx); err != nil {
		return nil, fmt.Errorf("failed to count departments: %w", err)
	}
	if out.Services, err = s.stats.CountServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}
	if out.Users.Total, err = s.stats.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if out.Requests, err = s.stats.CountRequests(ctx, 0); err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	if out.RequestsByDepartment, err = s.stats.CountRequestsByDepartment(ctx); err != nil {
		return nil, fmt.Errorf("failed to count requests by department: %w", err)
	}
	if out.RecentRequests, err = s.repo.ListRecent(recentRequestsLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent requests: %w", err)
	}
	if out.RequestsByDepartment == nil {
		out.RequestsByDepartment = []DepartmentCount{}
	}
	if out.RecentRequests == nil {
		out.RecentRequests = []*Request{}
	}
	return &out, nil
}

func (s *Service) get(id int64) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func departmentOf(officer *internal.Principal) (int64, error) {
	if officer == nil || officer.DepartmentID == nil {
		return 0, ErrNoDepartment
	}
	return *officer.DepartmentID, nil
}

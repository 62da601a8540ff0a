package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestSubmitted = "request.submitted"
	EventTypeRequestDecided   = "request.decided"
)

type RequestSubmittedEvent struct {
	BaseEvent
	RequestID    int64  `json:"request_id"`
	CitizenID    int64  `json:"citizen_id"`
	DepartmentID int64  `json:"department_id"`
	Forwarded    bool   `json:"forwarded"`
	ServiceName  string `json:"service_name"`
}

func NewRequestSubmittedEvent(requestID, citizenID, departmentID int64, serviceName string, forwarded bool) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":    requestID,
				"citizen_id":    citizenID,
				"department_id": departmentID,
				"service_name":  serviceName,
				"forwarded":     forwarded,
			},
		},
		RequestID:    requestID,
		CitizenID:    citizenID,
		DepartmentID: departmentID,
		Forwarded:    forwarded,
		ServiceName:  serviceName,
	}
}

type RequestDecidedEvent struct {
	BaseEvent
	RequestID    int64  `json:"request_id"`
	DepartmentID int64  `json:"department_id"`
	OfficerID    int64  `json:"officer_id"`
	Status       string `json:"status"`
	Relayed      bool   `json:"relayed"`
}

func NewRequestDecidedEvent(requestID, departmentID, officerID int64, status string, relayed bool) *RequestDecidedEvent {
	return &RequestDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":    requestID,
				"department_id": departmentID,
				"officer_id":    officerID,
				"status":        status,
				"relayed":       relayed,
			},
		},
		RequestID:    requestID,
		DepartmentID: departmentID,
		OfficerID:    officerID,
		Status:       status,
		Relayed:      relayed,
	}
}

// AuditHandler writes every received event to the logger.
func AuditHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		args := []any{"event_type", event.EventType(), "event_id", event.EventID(), "occurred_at", event.OccurredAt()}
		if data, ok := event.Payload().(map[string]interface{}); ok {
			for k, v := range data {
				args = append(args, k, v)
			}
		}
		logger.InfoContext(ctx, "audit: request lifecycle event", args...)
		return nil
	}
}

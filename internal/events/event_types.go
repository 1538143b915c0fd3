package events

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceCreated       EventType = "grievance_created"
	EventGrievanceStatusChanged EventType = "grievance_status_changed"
	EventGrievanceAssigned      EventType = "grievance_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string       `json:"id"`
	Type        EventType    `json:"type"`
	GrievanceID string       `json:"grievance_id"`
	Actor       domain.Actor `json:"actor"`
	Timestamp   time.Time    `json:"timestamp"`
	Payload     interface{}  `json:"payload"`
}

// GrievanceCreatedPayload payload.
type GrievanceCreatedPayload struct {
	TicketID  string           `json:"ticket_id"`
	Category  domain.Category  `json:"category"`
	Sentiment domain.Sentiment `json:"sentiment"`
	Priority  domain.Priority  `json:"priority"`
}

// GrievanceStatusChangedPayload payload.
type GrievanceStatusChangedPayload struct {
	Grievance domain.Grievance `json:"grievance"`
	OldStatus domain.Status    `json:"old_status"`
	NewStatus domain.Status    `json:"new_status"`
}

// GrievanceAssignedPayload payload. AssigneeID is nil on unassignment.
type GrievanceAssignedPayload struct {
	Grievance  domain.Grievance `json:"grievance"`
	AssigneeID *string          `json:"assignee_id,omitempty"`
	Previous   *string          `json:"previous_assignee_id,omitempty"`
}

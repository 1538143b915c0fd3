package notify

import (
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// Type distinguishes notification kinds.
type Type string

const (
	TypeAssignment   Type = "assignment"
	TypeStatusChange Type = "status_change"
)

// Payload is the message handed to the email sender.
type Payload struct {
	Type           Type          `json:"type"`
	GrievanceID    string        `json:"grievanceId"`
	GrievanceTitle string        `json:"grievanceTitle"`
	TicketID       string        `json:"ticketId"`
	RecipientEmail string        `json:"recipientEmail"`
	RecipientName  *string       `json:"recipientName,omitempty"`
	AssignedByName *string       `json:"assignedByName,omitempty"`
	NewStatus      domain.Status `json:"newStatus,omitempty"`
	OldStatus      domain.Status `json:"oldStatus,omitempty"`
}

// FormatStatus renders a status for humans, e.g. in_progress becomes IN PROGRESS.
func FormatStatus(status domain.Status) string {
	return strings.ToUpper(strings.ReplaceAll(string(status), "_", " "))
}

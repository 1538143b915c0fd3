package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "IN PROGRESS", FormatStatus(domain.StatusInProgress))
	assert.Equal(t, "PENDING", FormatStatus(domain.StatusPending))
}

func TestRender_Assignment(t *testing.T) {
	email, err := Render(Payload{
		Type:           TypeAssignment,
		TicketID:       "GRV-ABC-1234",
		GrievanceTitle: "Broken projector",
		RecipientEmail: "staff@example.com",
		RecipientName:  strPtr("Priya"),
		AssignedByName: strPtr("Admin One"),
	})
	require.NoError(t, err)

	assert.Equal(t, "staff@example.com", email.To)
	assert.Equal(t, "New Grievance Assigned: GRV-ABC-1234", email.Subject)
	assert.Contains(t, email.HTML, "Hello Priya")
	assert.Contains(t, email.HTML, "Admin One")
	assert.Contains(t, email.HTML, "Broken projector")
}

func TestRender_AssignmentFallbackName(t *testing.T) {
	email, err := Render(Payload{Type: TypeAssignment, TicketID: "GRV-1-AAAA"})
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "Hello Staff Member")
	assert.NotContains(t, email.HTML, " by <strong>")
}

func TestRender_StatusChange(t *testing.T) {
	email, err := Render(Payload{
		Type:           TypeStatusChange,
		TicketID:       "GRV-ABC-1234",
		GrievanceTitle: "Fees",
		RecipientEmail: "citizen@example.com",
		OldStatus:      domain.StatusPending,
		NewStatus:      domain.StatusInProgress,
	})
	require.NoError(t, err)

	assert.Equal(t, "Grievance Status Updated: GRV-ABC-1234", email.Subject)
	assert.Contains(t, email.HTML, "Hello User")
	assert.Contains(t, email.HTML, "PENDING")
	assert.Contains(t, email.HTML, "IN PROGRESS")
	assert.NotContains(t, email.HTML, "has been resolved")
}

func TestRender_ResolvedVariant(t *testing.T) {
	email, err := Render(Payload{
		Type:      TypeStatusChange,
		TicketID:  "GRV-ABC-1234",
		NewStatus: domain.StatusResolved,
	})
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "has been resolved")
}

func TestRender_EscapesUserContent(t *testing.T) {
	email, err := Render(Payload{
		Type:           TypeStatusChange,
		GrievanceTitle: "<script>alert(1)</script>",
		NewStatus:      domain.StatusClosed,
	})
	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "<script>")
}

func TestRender_UnknownType(t *testing.T) {
	_, err := Render(Payload{Type: "digest"})
	assert.Error(t, err)
}

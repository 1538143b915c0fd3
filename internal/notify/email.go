package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// Email is a rendered message ready for a provider.
type Email struct {
	To      string
	Subject string
	HTML    string
}

var assignmentTemplate = template.Must(template.New("assignment").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New Grievance Assigned</h2>
  <p>Hello {{.Recipient}},</p>
  <p>A grievance has been assigned to you{{if .AssignedBy}} by <strong>{{.AssignedBy}}</strong>{{end}}.</p>
  <table>
    <tr><td><strong>Ticket ID:</strong></td><td>{{.TicketID}}</td></tr>
    <tr><td><strong>Title:</strong></td><td>{{.Title}}</td></tr>
  </table>
  <p>Please log in to the dashboard to review and take action.</p>
</body>
</html>`))

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Grievance Status Updated</h2>
  <p>Hello {{.Recipient}},</p>
  <p>The status of your grievance has been updated.</p>
  <table>
    <tr><td><strong>Ticket ID:</strong></td><td>{{.TicketID}}</td></tr>
    <tr><td><strong>Title:</strong></td><td>{{.Title}}</td></tr>
    {{if .OldStatus}}<tr><td><strong>Previous Status:</strong></td><td>{{.OldStatus}}</td></tr>{{end}}
    <tr><td><strong>New Status:</strong></td><td>{{.NewStatus}}</td></tr>
  </table>
  {{if .Resolved}}<p>Your grievance has been resolved. Thank you for your patience.</p>{{else}}<p>You can track your grievance with the ticket ID above.</p>{{end}}
</body>
</html>`))

type templateData struct {
	Recipient  string
	AssignedBy string
	TicketID   string
	Title      string
	OldStatus  string
	NewStatus  string
	Resolved   bool
}

// Render builds the email for a payload.
func Render(p Payload) (Email, error) {
	data := templateData{
		TicketID: p.TicketID,
		Title:    p.GrievanceTitle,
	}

	var (
		tmpl    *template.Template
		subject string
	)
	switch p.Type {
	case TypeAssignment:
		tmpl = assignmentTemplate
		subject = "New Grievance Assigned: " + p.TicketID
		data.Recipient = nameOr(p.RecipientName, "Staff Member")
		if p.AssignedByName != nil {
			data.AssignedBy = *p.AssignedByName
		}
	case TypeStatusChange:
		tmpl = statusTemplate
		subject = "Grievance Status Updated: " + p.TicketID
		data.Recipient = nameOr(p.RecipientName, "User")
		if p.OldStatus != "" {
			data.OldStatus = FormatStatus(p.OldStatus)
		}
		data.NewStatus = FormatStatus(p.NewStatus)
		data.Resolved = p.NewStatus == domain.StatusResolved
	default:
		return Email{}, fmt.Errorf("unknown notification type %q", p.Type)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("render %s email: %w", p.Type, err)
	}
	return Email{To: p.RecipientEmail, Subject: subject, HTML: buf.String()}, nil
}

func nameOr(name *string, fallback string) string {
	if name != nil && *name != "" {
		return *name
	}
	return fallback
}

package notifications

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Assignment tells an admin a service request now belongs to them.
type Assignment struct {
	RequestID        string
	CustomerName     string
	Company          string
	ServiceRequested string
	Manufacturer     string
	Model            string
	SerialNumber     string
	PickupDate       time.Time
	ReturnDate       time.Time
	NeedsRush        bool
	AssigneeEmail    string
	AssigneeName     string
	AssignedByName   string
}

// SendAssignment emails the assignee. Failures are logged and reported as false.
func (s *Sender) SendAssignment(ctx context.Context, msg Assignment) bool {
	ctx = s.logg.WithField(ctx, "service_request_id", msg.RequestID)
	to := strings.TrimSpace(msg.AssigneeEmail)
	if to == "" {
		s.logg.Warn(ctx, "notification.assignment_skipped: assignee has no email")
		return s.record(false)
	}

	var text, html bytes.Buffer
	if err := assignmentText.Execute(&text, msg); err != nil {
		s.logg.Error(ctx, "notification.render_failed", err)
		return s.record(false)
	}
	if err := assignmentHTML.Execute(&html, msg); err != nil {
		s.logg.Error(ctx, "notification.render_failed", err)
		return s.record(false)
	}

	subject := fmt.Sprintf("New Service Request Assignment: %s", msg.CustomerName)
	return s.deliver(ctx, mail.NewSingleEmail(s.from, subject, mail.NewEmail(msg.AssigneeName, to), text.String(), html.String()))
}

var assignmentFuncs = map[string]any{
	"date": func(t time.Time) string { return t.Format("January 02, 2006") },
}

var assignmentText = texttemplate.Must(texttemplate.New("assignment.txt").Funcs(assignmentFuncs).Parse(`Hi {{.AssigneeName}},

{{if .AssignedByName}}{{.AssignedByName}} assigned{{else}}You have been assigned{{end}} a service request{{if .AssignedByName}} to you{{end}}.

Customer: {{.CustomerName}}
Company: {{.Company}}
Service: {{.ServiceRequested}}
Equipment: {{.Manufacturer}} {{.Model}} (S/N {{.SerialNumber}})
Pickup: {{date .PickupDate}}
Return: {{date .ReturnDate}}{{if .NeedsRush}}
RUSH REQUEST{{end}}
`))

var assignmentHTML = htmltemplate.Must(htmltemplate.New("assignment.html").Funcs(assignmentFuncs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #374151; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #111827;">New Service Request Assignment</h2>
  <p>Hi {{.AssigneeName}},</p>
  <p>{{if .AssignedByName}}{{.AssignedByName}} assigned a service request to you.{{else}}You have been assigned a service request.{{end}}</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Customer</strong></td><td>{{.CustomerName}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Company</strong></td><td>{{.Company}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Service</strong></td><td>{{.ServiceRequested}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Equipment</strong></td><td>{{.Manufacturer}} {{.Model}} (S/N {{.SerialNumber}})</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Pickup</strong></td><td>{{date .PickupDate}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Return</strong></td><td>{{date .ReturnDate}}</td></tr>
  </table>
  {{if .NeedsRush}}<p style="color: #b91c1c;"><strong>Rush request</strong></p>{{end}}
</body>
</html>
`))

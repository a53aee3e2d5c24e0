package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Notification kinds.
const (
	KindRegistrationReceived = "registration_received"
	KindRegistrationPending  = "registration_pending"
	KindRegistrationApproved = "registration_approved"
	KindRegistrationRejected = "registration_rejected"
	KindTeamJoined           = "team_joined"
)

// NotificationData fills notification templates.
type NotificationData struct {
	Name       string
	EventTitle string
	EventType  string
	EventDate  string
	TeamName   string
}

type notificationTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
{{template "content" .}}
<p style="color:#888">You are receiving this because you signed up for {{.EventTitle}}.</p>
</body></html>`

var notificationTemplates = map[string]notificationTemplate{
	KindRegistrationReceived: newTemplate("You're registered for %s", `{{define "content"}}
<p>Your registration for the {{.EventType}} <strong>{{.EventTitle}}</strong> is confirmed.</p>
{{if .EventDate}}<p>It starts on {{.EventDate}}.</p>{{end}}{{end}}`),
	KindRegistrationPending: newTemplate("Registration received for %s", `{{define "content"}}
<p>We received your registration for <strong>{{.EventTitle}}</strong>.
The organizers will review it and you will get another email once it is decided.</p>{{end}}`),
	KindRegistrationApproved: newTemplate("Your registration for %s was approved", `{{define "content"}}
<p>Good news: your registration for <strong>{{.EventTitle}}</strong> was approved.</p>
{{if .EventDate}}<p>See you on {{.EventDate}}.</p>{{end}}{{end}}`),
	KindRegistrationRejected: newTemplate("Update on your registration for %s", `{{define "content"}}
<p>Unfortunately your registration for <strong>{{.EventTitle}}</strong> was not approved this time.</p>{{end}}`),
	KindTeamJoined: newTemplate("You joined a team for %s", `{{define "content"}}
<p>You are now a member of team <strong>{{.TeamName}}</strong> for <strong>{{.EventTitle}}</strong>.</p>{{end}}`),
}

func newTemplate(subject, content string) notificationTemplate {
	t := template.Must(template.New("layout").Parse(layout))
	template.Must(t.Parse(content))
	return notificationTemplate{subject: subject, body: t}
}

// Render returns the subject and HTML body of a notification.
func Render(kind string, data NotificationData) (string, string, error) {
	tmpl, ok := notificationTemplates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", kind, err)
	}
	return fmt.Sprintf(tmpl.subject, data.EventTitle), buf.String(), nil
}

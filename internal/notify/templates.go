package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// TemplateKey identifies a notification template. The set is closed; the
// dispatcher rejects unknown keys.
type TemplateKey string

const (
	TemplateOrderCreated     TemplateKey = "ORDER_CREATED"
	TemplateBillGenerated    TemplateKey = "BILL_GENERATED"
	TemplateFeedbackReceived TemplateKey = "FEEDBACK_RECEIVED"
	TemplateFeedbackResponse TemplateKey = "FEEDBACK_RESPONSE"
	TemplateFeedbackStatus   TemplateKey = "FEEDBACK_STATUS_CHANGED"
	TemplateTaskAssigned     TemplateKey = "TASK_ASSIGNED"
	TemplateAccountApproved  TemplateKey = "ACCOUNT_APPROVED"
	TemplateLeadAssigned     TemplateKey = "LEAD_ASSIGNED"
)

// Template resolves to the notification title, type and category; Body is a
// text/template rendered with the event's interpolation data.
type Template struct {
	Title    string
	Type     domain.NotificationType
	Category string
	Body     string
}

var templates = map[TemplateKey]Template{
	TemplateOrderCreated: {
		Title:    "Order Created",
		Type:     domain.NotificationSuccess,
		Category: "orders",
		Body:     "Your order {{.OrderID}} has been created.",
	},
	TemplateBillGenerated: {
		Title:    "Bill Generated",
		Type:     domain.NotificationInfo,
		Category: "billing",
		Body:     "A new bill {{.BillNumber}} is ready for review.",
	},
	TemplateFeedbackReceived: {
		Title:    "New Feedback",
		Type:     domain.NotificationInfo,
		Category: "support",
		Body:     "{{.ClientName}} submitted feedback on thread {{.ThreadID}}: {{.Subject}}",
	},
	TemplateFeedbackResponse: {
		Title:    "Feedback Response",
		Type:     domain.NotificationInfo,
		Category: "support",
		Body:     "Support replied to your feedback {{.ThreadID}}: {{.Subject}}",
	},
	TemplateFeedbackStatus: {
		Title:    "Feedback Status Updated",
		Type:     domain.NotificationInfo,
		Category: "support",
		Body:     "Your feedback {{.ThreadID}} is now {{.Status}}.",
	},
	TemplateTaskAssigned: {
		Title:    "Task Assigned",
		Type:     domain.NotificationInfo,
		Category: "tasks",
		Body:     "Task {{.TaskTitle}} has been assigned to you.",
	},
	TemplateAccountApproved: {
		Title:    "Account Approved",
		Type:     domain.NotificationSuccess,
		Category: "account",
		Body:     "Your account has been approved. Welcome aboard!",
	},
	TemplateLeadAssigned: {
		Title:    "Lead Assigned",
		Type:     domain.NotificationInfo,
		Category: "leads",
		Body:     "Lead {{.LeadName}} has been assigned to you.",
	},
}

// Resolve looks up a template by key.
func Resolve(key TemplateKey) (Template, bool) {
	tmpl, ok := templates[key]
	return tmpl, ok
}

// RenderBody interpolates the template body with event data. Missing keys
// render as "<no value>" rather than failing; notification delivery should
// not break on an incomplete payload.
func (t Template) RenderBody(data map[string]any) string {
	tmpl, err := template.New("body").Parse(t.Body)
	if err != nil {
		return t.Body
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return t.Body
	}
	return buf.String()
}

// RenderEmailHTML renders the simple HTML email mirror of a notification.
func (t Template) RenderEmailHTML(body string) string {
	return fmt.Sprintf("<h2>%s</h2><p>%s</p>", t.Title, body)
}

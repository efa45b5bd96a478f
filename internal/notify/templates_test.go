package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tmpl, ok := Resolve(TemplateFeedbackReceived)
	assert.True(t, ok)
	assert.Equal(t, "New Feedback", tmpl.Title)
	assert.Equal(t, "support", tmpl.Category)

	_, ok = Resolve(TemplateKey("UNKNOWN"))
	assert.False(t, ok)
}

func TestRenderBody(t *testing.T) {
	tmpl, _ := Resolve(TemplateFeedbackStatus)

	body := tmpl.RenderBody(map[string]any{"ThreadID": "FB-1234ABCD", "Status": "in_progress"})
	assert.Equal(t, "Your feedback FB-1234ABCD is now in_progress.", body)

	// Missing keys degrade, they do not fail the render.
	body = tmpl.RenderBody(nil)
	assert.Contains(t, body, "Your feedback")
}

func TestRenderEmailHTML(t *testing.T) {
	tmpl, _ := Resolve(TemplateFeedbackResponse)
	html := tmpl.RenderEmailHTML("Support replied to your feedback FB-1234ABCD: Billing issue")
	assert.Contains(t, html, "<h2>Feedback Response</h2>")
	assert.Contains(t, html, "FB-1234ABCD")
}

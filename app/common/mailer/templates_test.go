package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSetPassword(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(TemplateSetPassword, map[string]any{
		"email": "guest@example.com",
		"link":  "https://app.example.com/set-password?token=abc&email=guest%40example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Set your VenueHub password", out.Subject)
	assert.Contains(t, out.Text, "guest@example.com")
	assert.Contains(t, out.Text, "token=abc")
	assert.Contains(t, out.HTML, "Set password")
}

func TestRenderOrderPaidSubject(t *testing.T) {
	out, err := NewRenderer().Render(TemplateOrderPaid, map[string]any{
		"orderNo":  "VH1",
		"amount":   "25.00",
		"currency": "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your VenueHub order VH1", out.Subject)
	assert.NotContains(t, out.Text, "Receipt:")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewRenderer().Render("nope", nil)
	assert.Error(t, err)
}

func TestNewSenderFallsBackToLog(t *testing.T) {
	s := NewSender(MailgunConf{})
	_, ok := s.(LogSender)
	require.True(t, ok)

	id, err := s.Send(context.Background(), "a@b.c", "subj", "", "body")
	assert.NoError(t, err)
	assert.Empty(t, id)
}

package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/zeromicro/go-zero/core/logx"
)

type MailgunConf struct {
	Domain    string `json:",optional"`
	APIKey    string `json:",optional"`
	APIBase   string `json:",optional"`
	FromEmail string `json:",default=no-reply@venuehub.local"`
	FromName  string `json:",default=VenueHub"`
}

func (c MailgunConf) configured() bool {
	return c.Domain != "" && c.APIKey != ""
}

// Sender delivers one rendered email and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, to, subject, html, text string) (string, error)
}

// NewSender returns a Mailgun sender, or a logging sender when Mailgun is
// not configured (local and test environments).
func NewSender(c MailgunConf) Sender {
	if !c.configured() {
		logx.Info("mailgun not configured, emails will only be logged")
		return LogSender{}
	}
	mg := mailgun.NewMailgun(c.Domain, c.APIKey)
	if c.APIBase != "" {
		mg.SetAPIBase(c.APIBase)
	}
	return &MailgunSender{client: mg, from: fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)}
}

type MailgunSender struct {
	client *mailgun.MailgunImpl
	from   string
}

func (s *MailgunSender) Send(ctx context.Context, to, subject, html, text string) (string, error) {
	msg := s.client.NewMessage(s.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, id, err := s.client.Send(sendCtx, msg)
	if err != nil {
		return "", fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return id, nil
}

type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, _, text string) (string, error) {
	logx.WithContext(ctx).Infow("email (not sent)",
		logx.Field("to", to), logx.Field("subject", subject), logx.Field("text", text))
	return "", nil
}

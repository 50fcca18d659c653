package notification

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/mailer"
	"VenueHub/app/common/orderevents"
	"VenueHub/app/common/tasks"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, queue, name string, payload any, opts jobqueue.Options) (*jobqueue.JobHandle, error)
}

type SendResult struct {
	MessageID string `json:"messageId,omitempty"`
}

type Service struct {
	renderer *mailer.Renderer
	sender   mailer.Sender
}

func NewService(renderer *mailer.Renderer, sender mailer.Sender) *Service {
	return &Service{renderer: renderer, sender: sender}
}

// Send renders and delivers one templated email. Template and address
// problems are permanent; provider outages are returned as is so the job
// is retried.
func (s *Service) Send(ctx context.Context, p tasks.EmailPayload) (*SendResult, error) {
	to := strings.TrimSpace(p.To)
	if to == "" || !strings.Contains(to, "@") {
		return nil, errors.New(errno.InvalidParam, "email recipient is missing")
	}
	msg, err := s.renderer.Render(p.Template, p.Data)
	if err != nil {
		return nil, errors.New(errno.InvalidParam, err.Error())
	}
	id, err := s.sender.Send(ctx, to, msg.Subject, msg.HTML, msg.Text)
	if err != nil {
		var ure *mailgun.UnexpectedResponseError
		if stderrors.As(err, &ure) && ure.Actual >= http.StatusBadRequest && ure.Actual < http.StatusInternalServerError &&
			ure.Actual != http.StatusTooManyRequests {
			return nil, errors.New(errno.InvalidParam, fmt.Sprintf("email rejected by provider: %d", ure.Actual))
		}
		return nil, err
	}
	logx.WithContext(ctx).Infow("email sent",
		logx.Field("template", p.Template), logx.Field("messageId", id))
	return &SendResult{MessageID: id}, nil
}

// OrderPaidEmail builds the receipt email for a paid order.
func OrderPaidEmail(evt orderevents.OrderPaidEvent) tasks.EmailPayload {
	return tasks.EmailPayload{
		To:       evt.Email,
		Template: mailer.TemplateOrderPaid,
		Data: map[string]any{
			"orderNo":    evt.OrderNo,
			"amount":     FormatAmount(evt.PaidAmount),
			"currency":   strings.ToUpper(evt.Currency),
			"receiptUrl": evt.ReceiptURL,
		},
	}
}

// QueueOrderPaid schedules the receipt email. The job id is derived from
// the payment intent so a replayed event does not mail twice.
func QueueOrderPaid(ctx context.Context, jobs Enqueuer, evt orderevents.OrderPaidEvent) error {
	if evt.Email == "" || evt.PaymentIntentID == "" {
		logx.WithContext(ctx).Infow("order event without recipient skipped", logx.Field("orderNo", evt.OrderNo))
		return nil
	}
	_, err := jobs.Enqueue(ctx, biz.QueueNotifications, tasks.TaskEmailSend, OrderPaidEmail(evt),
		tasks.EmailOptions("orderpaid:"+evt.PaymentIntentID))
	return err
}

// FormatAmount renders minor units with two decimals.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

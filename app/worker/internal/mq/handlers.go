package mq

import (
	"bytes"
	"context"
	"encoding/json"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/tasks"
	"VenueHub/app/services/activity"
	"VenueHub/app/services/notification"
	"VenueHub/app/services/payment"
	"VenueHub/app/worker/internal/svc"

	"github.com/stripe/stripe-go/v79"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

type ActivityFinder interface {
	GetByID(ctx context.Context, id string) (*activity.Detail, error)
}

type IntentCreator interface {
	CreateIntent(ctx context.Context, req tasks.CheckoutPayload) (*payment.IntentResult, error)
}

type EventHandler interface {
	HandleEvent(ctx context.Context, ev stripe.Event) (*payment.Ack, error)
}

type EmailSender interface {
	Send(ctx context.Context, p tasks.EmailPayload) (*notification.SendResult, error)
}

// Handlers adapts the domain services to queue jobs.
type Handlers struct {
	activities ActivityFinder
	checkout   IntentCreator
	webhooks   EventHandler
	emails     EmailSender
}

func NewHandlers(activities ActivityFinder, checkout IntentCreator, webhooks EventHandler, emails EmailSender) *Handlers {
	return &Handlers{activities: activities, checkout: checkout, webhooks: webhooks, emails: emails}
}

func NewHandlersFromContext(sc *svc.ServiceContext) *Handlers {
	return NewHandlers(sc.Activities, sc.Checkout, sc.Reconciler, sc.Notifications)
}

func (h *Handlers) Register(p *jobqueue.Pool) {
	p.Register(biz.QueueActivities, tasks.TaskActivityGetByID, h.ActivityGetByID)
	p.Register(biz.QueuePayments, tasks.TaskPaymentCreateIntent, h.PaymentCreateIntent)
	p.Register(biz.QueuePayments, tasks.TaskPaymentWebhook, h.PaymentWebhook)
	p.Register(biz.QueueNotifications, tasks.TaskEmailSend, h.EmailSend)
}

func (h *Handlers) ActivityGetByID(ctx context.Context, payload json.RawMessage) jobqueue.Result {
	var p tasks.ActivityLookupPayload
	if err := decode(payload, &p); err != nil {
		return jobqueue.Fatal(err)
	}
	return jobqueue.Classify(h.activities.GetByID(ctx, p.ActivityID))
}

func (h *Handlers) PaymentCreateIntent(ctx context.Context, payload json.RawMessage) jobqueue.Result {
	var p tasks.CheckoutPayload
	if err := decode(payload, &p); err != nil {
		return jobqueue.Fatal(err)
	}
	return jobqueue.Classify(h.checkout.CreateIntent(ctx, p))
}

// PaymentWebhook applies an event the gateway already verified.
func (h *Handlers) PaymentWebhook(ctx context.Context, payload json.RawMessage) jobqueue.Result {
	var p tasks.WebhookPayload
	if err := decode(payload, &p); err != nil {
		return jobqueue.Fatal(err)
	}
	var ev stripe.Event
	if err := decode(p.Event, &ev); err != nil {
		return jobqueue.Fatal(err)
	}
	if ev.ID == "" || ev.Type == "" {
		return jobqueue.Fatal(errors.New(errno.InvalidParam, "webhook event without id or type"))
	}
	logx.WithContext(ctx).Infow("processing webhook event", logx.Field("event", ev.ID), logx.Field("type", ev.Type))
	return jobqueue.Classify(h.webhooks.HandleEvent(ctx, ev))
}

func (h *Handlers) EmailSend(ctx context.Context, payload json.RawMessage) jobqueue.Result {
	var p tasks.EmailPayload
	if err := decode(payload, &p); err != nil {
		return jobqueue.Fatal(err)
	}
	return jobqueue.Classify(h.emails.Send(ctx, p))
}

func decode(raw json.RawMessage, v any) error {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New(errno.InvalidParam, "empty job payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.New(errno.InvalidParam, "malformed job payload: "+err.Error())
	}
	return nil
}

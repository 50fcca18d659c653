package mq

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/tasks"
	activitydal "VenueHub/app/dal/activity"
	"VenueHub/app/services/activity"
	"VenueHub/app/services/notification"
	"VenueHub/app/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/zeromicro/x/errors"
)

type stubActivities struct{ seen string }

func (s *stubActivities) GetByID(_ context.Context, id string) (*activity.Detail, error) {
	s.seen = id
	if id == "missing" {
		return nil, errors.New(errno.ActivityNotFound, "activity not found")
	}
	return &activity.Detail{Activity: &activitydal.Activity{Title: "Quiz night"}}, nil
}

type stubCheckout struct{ req tasks.CheckoutPayload }

func (s *stubCheckout) CreateIntent(_ context.Context, req tasks.CheckoutPayload) (*payment.IntentResult, error) {
	s.req = req
	return &payment.IntentResult{PaymentIntentID: "pi_1", Amount: 1500, Currency: "usd"}, nil
}

type stubWebhooks struct {
	ev  stripe.Event
	err error
}

func (s *stubWebhooks) HandleEvent(_ context.Context, ev stripe.Event) (*payment.Ack, error) {
	s.ev = ev
	if s.err != nil {
		return nil, s.err
	}
	return &payment.Ack{Received: true}, nil
}

type stubEmails struct{ sent []tasks.EmailPayload }

func (s *stubEmails) Send(_ context.Context, p tasks.EmailPayload) (*notification.SendResult, error) {
	s.sent = append(s.sent, p)
	return &notification.SendResult{MessageID: "m1"}, nil
}

func raw(t *testing.T, v any) json.RawMessage {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestActivityGetByID(t *testing.T) {
	acts := &stubActivities{}
	h := NewHandlers(acts, &stubCheckout{}, &stubWebhooks{}, &stubEmails{})
	ctx := context.Background()

	res := h.ActivityGetByID(ctx, raw(t, tasks.ActivityLookupPayload{ActivityID: "a1"}))
	assert.Equal(t, jobqueue.KindOk, res.Kind())
	assert.Equal(t, "a1", acts.seen)

	res = h.ActivityGetByID(ctx, raw(t, tasks.ActivityLookupPayload{ActivityID: "missing"}))
	assert.Equal(t, jobqueue.KindFatal, res.Kind())

	res = h.ActivityGetByID(ctx, json.RawMessage(`{"activityId":`))
	assert.Equal(t, jobqueue.KindFatal, res.Kind())
}

func TestPaymentCreateIntentPassesCaller(t *testing.T) {
	co := &stubCheckout{}
	h := NewHandlers(&stubActivities{}, co, &stubWebhooks{}, &stubEmails{})

	res := h.PaymentCreateIntent(context.Background(), raw(t, tasks.CheckoutPayload{
		RequestID: "req-1", Kind: "activity", ActivityID: "a1", ScheduleID: "s1", Quantity: 2, Email: "x@y.z",
	}))
	require.Equal(t, jobqueue.KindOk, res.Kind())
	assert.Equal(t, "req-1", co.req.RequestID)
	assert.Equal(t, int64(2), co.req.Quantity)
	out, ok := res.Value().(*payment.IntentResult)
	require.True(t, ok)
	assert.Equal(t, "pi_1", out.PaymentIntentID)
}

func TestPaymentWebhookDecodesEvent(t *testing.T) {
	hooks := &stubWebhooks{}
	h := NewHandlers(&stubActivities{}, &stubCheckout{}, hooks, &stubEmails{})
	event := json.RawMessage(`{"id":"evt_1","type":"payment_intent.succeeded","created":1700000000,"data":{"object":{"id":"pi_9","object":"payment_intent"}}}`)

	res := h.PaymentWebhook(context.Background(), raw(t, tasks.WebhookPayload{Event: event}))
	require.Equal(t, jobqueue.KindOk, res.Kind())
	assert.Equal(t, "evt_1", hooks.ev.ID)
	assert.Equal(t, stripe.EventType("payment_intent.succeeded"), hooks.ev.Type)
	require.NotNil(t, hooks.ev.Data)
	assert.Contains(t, string(hooks.ev.Data.Raw), "pi_9")

	hooks.err = stderrors.New("mongo down")
	res = h.PaymentWebhook(context.Background(), raw(t, tasks.WebhookPayload{Event: event}))
	assert.Equal(t, jobqueue.KindRetryable, res.Kind())

	res = h.PaymentWebhook(context.Background(), raw(t, tasks.WebhookPayload{}))
	assert.Equal(t, jobqueue.KindFatal, res.Kind())
}

func TestPaymentWebhookRejectsEmptyEvents(t *testing.T) {
	hooks := &stubWebhooks{err: stderrors.New("must not be reached")}
	h := NewHandlers(&stubActivities{}, &stubCheckout{}, hooks, &stubEmails{})

	payloads := []json.RawMessage{
		json.RawMessage(`null`),
		json.RawMessage(`{"event":null}`),
		json.RawMessage(`{"event":{}}`),
		json.RawMessage(`{"event":{"id":"evt_1"}}`),
		json.RawMessage(`{"event":{"type":"payment_intent.succeeded"}}`),
	}
	for _, p := range payloads {
		res := h.PaymentWebhook(context.Background(), p)
		require.Equal(t, jobqueue.KindFatal, res.Kind(), string(p))
		err := res.Err()
		var cm *errors.CodeMsg
		require.ErrorAs(t, err, &cm, string(p))
		assert.Equal(t, errno.InvalidParam, cm.Code)
	}
	assert.Empty(t, hooks.ev.ID)
}

func TestEmailSend(t *testing.T) {
	emails := &stubEmails{}
	h := NewHandlers(&stubActivities{}, &stubCheckout{}, &stubWebhooks{}, emails)

	res := h.EmailSend(context.Background(), raw(t, tasks.EmailPayload{To: "a@b.c", Template: "order-paid"}))
	assert.Equal(t, jobqueue.KindOk, res.Kind())
	require.Len(t, emails.sent, 1)
	assert.Equal(t, "a@b.c", emails.sent[0].To)
}

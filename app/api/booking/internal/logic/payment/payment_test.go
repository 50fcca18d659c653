package logic

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"VenueHub/app/api/booking/internal/config"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/common/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/zeromicro/x/errors"
)

const whsec = "whsec_logic"

type call struct {
	queue, name string
	payload     any
	opts        jobqueue.Options
}

type fakeJobs struct {
	calls []call
	reply string
	err   error
}

func (f *fakeJobs) Call(_ context.Context, queue, name string, payload any, opts jobqueue.Options, out any) error {
	f.calls = append(f.calls, call{queue: queue, name: name, payload: payload, opts: opts})
	if f.err != nil {
		return f.err
	}
	if out == nil || f.reply == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func newCtx(jobs *fakeJobs) *svc.ServiceContext {
	return &svc.ServiceContext{
		Config: config.Config{Stripe: paygateway.StripeConf{WebhookSecret: whsec}},
		Jobs:   jobs,
	}
}

func codeOf(t *testing.T, err error) int {
	var cm *errors.CodeMsg
	require.True(t, stderrors.As(err, &cm), "expected coded error, got %v", err)
	return cm.Code
}

func signed(body string) (payload []byte, header string) {
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(body), Secret: whsec})
	return sp.Payload, sp.Header
}

const succeeded = `{"id":"evt_42","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_42","object":"payment_intent"}}}`

func TestStripeWebhookEnqueuesVerifiedEvent(t *testing.T) {
	jobs := &fakeJobs{reply: `{"received":true,"orderNo":"VH1","created":true}`}
	payload, header := signed(succeeded)

	resp, err := NewStripeWebhookLogic(context.Background(), newCtx(jobs)).StripeWebhook(payload, header)
	require.NoError(t, err)
	assert.True(t, resp.Received)

	require.Len(t, jobs.calls, 1)
	c := jobs.calls[0]
	assert.Equal(t, biz.QueuePayments, c.queue)
	assert.Equal(t, tasks.TaskPaymentWebhook, c.name)
	assert.Equal(t, "stripe:evt_42", c.opts.JobID)
	assert.JSONEq(t, succeeded, string(c.payload.(tasks.WebhookPayload).Event))
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	jobs := &fakeJobs{}
	payload, header := signed(succeeded)
	tampered := []byte(string(payload[:len(payload)-2]) + " }")

	_, err := NewStripeWebhookLogic(context.Background(), newCtx(jobs)).StripeWebhook(tampered, header)
	assert.Equal(t, errno.InvalidSignature, codeOf(t, err))
	assert.Equal(t, 400, errno.HTTPStatus(codeOf(t, err)))
	assert.Empty(t, jobs.calls)

	_, err = NewStripeWebhookLogic(context.Background(), newCtx(jobs)).StripeWebhook(payload, "")
	assert.Equal(t, errno.InvalidSignature, codeOf(t, err))
	assert.Empty(t, jobs.calls)
}

func TestStripeWebhookSurfacesJobFailure(t *testing.T) {
	jobs := &fakeJobs{err: errors.New(errno.JobFailed, "mongo unavailable")}
	payload, header := signed(succeeded)

	_, err := NewStripeWebhookLogic(context.Background(), newCtx(jobs)).StripeWebhook(payload, header)
	assert.Equal(t, errno.JobFailed, codeOf(t, err))
	assert.Equal(t, 500, errno.HTTPStatus(errno.JobFailed))
}

func authed(uid, email string) context.Context {
	ctx := context.WithValue(context.Background(), biz.USER_KEY, uid)
	ctx = context.WithValue(ctx, biz.ROLE_KEY, biz.RoleUser)
	return context.WithValue(ctx, biz.EMAIL_KEY, email)
}

func TestCreatePaymentIntentCarriesCaller(t *testing.T) {
	jobs := &fakeJobs{reply: `{"paymentIntentId":"pi_1","clientSecret":"cs","amount":2700,"currency":"usd","originalPrice":3000,"discountAmount":300}`}
	ctx := authed("u1", "buyer@example.com")

	resp, err := NewCreatePaymentIntentLogic(ctx, newCtx(jobs)).CreatePaymentIntent(&types.PaymentIntentRequest{
		IdempotencyKey: "k-1",
		Kind:           "activity",
		ActivityId:     "a1",
		ScheduleId:     "s1",
		Quantity:       3,
		DiscountCode:   "TENOFF",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", resp.PaymentIntentId)
	assert.Equal(t, int64(300), resp.DiscountAmount)

	require.Len(t, jobs.calls, 1)
	p := jobs.calls[0].payload.(tasks.CheckoutPayload)
	assert.Equal(t, "u1:k-1", p.RequestID)
	assert.Equal(t, p.RequestID, jobs.calls[0].opts.JobID)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "buyer@example.com", p.Email)
	assert.Equal(t, int64(3), p.Quantity)
	assert.Equal(t, tasks.TaskPaymentCreateIntent, jobs.calls[0].name)
}

func TestCreatePaymentIntentRequiresIdentity(t *testing.T) {
	jobs := &fakeJobs{}
	_, err := NewCreatePaymentIntentLogic(context.Background(), newCtx(jobs)).CreatePaymentIntent(&types.PaymentIntentRequest{Kind: "basket"})
	assert.Equal(t, errno.TokenEmpty, codeOf(t, err))
	assert.Empty(t, jobs.calls)
}

package payment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/token"
	"VenueHub/app/dal/activity"
	orderdal "VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	userdal "VenueHub/app/dal/user"
	"VenueHub/app/services/account"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const webhookSecret = "whsec_reconcile"

type harness struct {
	rec         *Reconciler
	activities  *memActivities
	baskets     *memBaskets
	orders      *memOrders
	users       *memUsers
	jobs        *recordingEnqueuer
	deals       *recordingRedeemer
	commissions *recordingCommissions
	rooms       *recordingRooms
	producer    *recordingProducer

	activity *activity.Activity
	schedule activity.Schedule
	seq      int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})

	sched := activity.Schedule{ID: bson.NewObjectID(), StartsAt: time.Now().Add(24 * time.Hour), Capacity: 20, PriceCents: 2500}
	act := &activity.Activity{
		ID:        bson.NewObjectID(),
		VenueID:   bson.NewObjectID(),
		Title:     "Salsa night",
		Schedules: []activity.Schedule{sched},
	}
	h := &harness{
		activities:  &memActivities{rows: map[string]*activity.Activity{act.ID.Hex(): act}},
		baskets:     &memBaskets{rows: map[string]*shop.Basket{}, ordered: map[string]string{}},
		orders:      newMemOrders(),
		users:       &memUsers{rows: map[string]*userdal.User{}},
		jobs:        &recordingEnqueuer{},
		deals:       &recordingRedeemer{},
		commissions: &recordingCommissions{},
		rooms:       &recordingRooms{},
		producer:    &recordingProducer{},
		activity:    act,
		schedule:    sched,
	}
	accounts := account.NewService(h.users, kv, h.jobs, token.Conf{AccessSecret: "a", RefreshSecret: "r"},
		"https://venuehub.test/set-password")
	h.rec = NewReconciler(ReconcilerDeps{
		Activities: h.activities,
		Baskets:    h.baskets,
		Orders:     h.orders,
		Users:      accounts,
		Deals:      h.deals,
		Affiliates: h.commissions,
		Gateway:    &fakeGateway{},
		Rooms:      h.rooms,
		Events:     h.producer,
		NextOrderNo: func() string {
			h.seq++
			return fmt.Sprintf("VH%d", h.seq)
		},
	})
	return h
}

func (h *harness) activityMeta(email string) map[string]string {
	return map[string]string{
		MetaKind:          orderdal.KindActivity,
		MetaActivityID:    h.activity.ID.Hex(),
		MetaScheduleID:    h.schedule.ID.Hex(),
		MetaEmail:         email,
		MetaQuantity:      "2",
		MetaOriginalPrice: "5000",
	}
}

func eventBody(t *testing.T, evtType, piID string, received int64, md map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":       "evt_" + piID,
		"object":   "event",
		"type":     evtType,
		"created":  int64(1767225600),
		"livemode": false,
		"data": map[string]any{"object": map[string]any{
			"id":              piID,
			"object":          "payment_intent",
			"amount":          received,
			"amount_received": received,
			"currency":        "usd",
			"status":          "succeeded",
			"metadata":        md,
			"latest_charge":   "ch_" + piID,
		}},
	})
	require.NoError(t, err)
	return body
}

func sign(body []byte) ([]byte, string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: webhookSecret})
	return signed.Payload, signed.Header
}

// deliver runs a webhook delivery end to end and returns the HTTP status
// the gateway would answer with.
func (h *harness) deliver(payload []byte, header string) (*Ack, int) {
	ev, err := VerifyWebhook(payload, header, webhookSecret)
	if err != nil {
		return nil, statusOf(err)
	}
	ack, err := h.rec.HandleEvent(context.Background(), *ev)
	if err != nil {
		return nil, statusOf(err)
	}
	return ack, http.StatusOK
}

func statusOf(err error) int {
	var cm *errors.CodeMsg
	if stderrors.As(err, &cm) {
		return errno.HTTPStatus(cm.Code)
	}
	return http.StatusInternalServerError
}

func TestWebhookRedeliveryWritesOneOrder(t *testing.T) {
	h := newHarness(t)
	md := h.activityMeta("Guest@Example.com")
	md[MetaDiscountCode] = "SPRING"
	md[MetaDiscountAmount] = "500"
	md[MetaAffiliateUserID] = bson.NewObjectID().Hex()
	payload, header := sign(eventBody(t, EventPaymentSucceeded, "pi_dup", 4500, md))

	first, status := h.deliver(payload, header)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, first.Created)
	firstOrder := *h.orders.rows["pi_dup"]

	second, status := h.deliver(payload, header)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, second.Created)
	assert.Equal(t, first.OrderNo, second.OrderNo)

	require.Len(t, h.orders.rows, 1)
	o := h.orders.rows["pi_dup"]
	firstOrder.UpdatedAt, o.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, firstOrder, *o)

	assert.Equal(t, orderdal.StatusPaid, o.Status)
	assert.Equal(t, int64(4500), o.PaidAmount)
	assert.Equal(t, int64(5000), o.OriginalPrice)
	assert.Equal(t, int64(500), o.DiscountAmount)
	assert.Equal(t, int64(2), o.Quantity)
	assert.Equal(t, h.activity.VenueID, o.VenueID)
	assert.Equal(t, orderdal.ModeTest, o.PaymentMode)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), o.PaidAt)
	assert.Equal(t, orderdal.PaymentMetadata{
		ChargeID:   "ch_pi_dup",
		CardBrand:  "visa",
		CardLast4:  "4242",
		ReceiptURL: "https://pay.stripe.test/receipts/ch_pi_dup",
	}, o.PaymentMetadata)

	assert.Len(t, h.users.rows, 1)
	assert.Len(t, h.jobs.jobs, 1)
	assert.Len(t, h.rooms.events, 1)
	assert.Len(t, h.producer.events, 1)
	assert.Equal(t, map[string]map[string]bool{"SPRING": {"pi_dup": true}}, h.deals.seen)
	assert.Equal(t, map[string]int64{"pi_dup": 4500}, h.commissions.rows)
}

func TestTamperedWebhookIsRejected(t *testing.T) {
	h := newHarness(t)
	payload, header := sign(eventBody(t, EventPaymentSucceeded, "pi_tamper", 5000, h.activityMeta("guest@example.com")))

	for i := range payload {
		tampered := append([]byte(nil), payload...)
		tampered[i] ^= 0x01
		_, status := h.deliver(tampered, header)
		require.Equal(t, http.StatusBadRequest, status, "byte %d", i)
	}

	_, status := h.deliver(payload, "t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, status)

	assert.Zero(t, h.orders.writes)
	assert.Empty(t, h.users.rows)
	assert.Empty(t, h.jobs.jobs)
}

func TestUnknownPayerIsProvisionedOnce(t *testing.T) {
	h := newHarness(t)

	_, status := h.deliver(sign(eventBody(t, EventPaymentSucceeded, "pi_a", 5000, h.activityMeta("New.Buyer@example.com"))))
	require.Equal(t, http.StatusOK, status)
	_, status = h.deliver(sign(eventBody(t, EventPaymentSucceeded, "pi_b", 5000, h.activityMeta("new.buyer@EXAMPLE.com"))))
	require.Equal(t, http.StatusOK, status)

	require.Len(t, h.users.rows, 1)
	u := h.users.rows["new.buyer@example.com"]
	require.NotNil(t, u)
	assert.False(t, u.Activated)
	assert.Empty(t, u.Password)

	require.Len(t, h.jobs.jobs, 1)
	assert.Equal(t, "notifications/email:send/pwdsetup:"+u.ID.Hex(), h.jobs.jobs[0])

	assert.Equal(t, u.ID, h.orders.rows["pi_a"].UserID)
	assert.Equal(t, u.ID, h.orders.rows["pi_b"].UserID)
}

func TestMissingReferenceIsRejectedWithoutWrites(t *testing.T) {
	tests := map[string]func(h *harness, md map[string]string){
		"activity deleted": func(h *harness, md map[string]string) {
			md[MetaActivityID] = bson.NewObjectID().Hex()
		},
		"schedule removed": func(h *harness, md map[string]string) {
			md[MetaScheduleID] = bson.NewObjectID().Hex()
		},
		"basket missing": func(h *harness, md map[string]string) {
			md[MetaKind] = orderdal.KindBasket
			md[MetaBasketID] = bson.NewObjectID().Hex()
			md[MetaUserID] = bson.NewObjectID().Hex()
		},
		"basket of someone else": func(h *harness, md map[string]string) {
			b := &shop.Basket{ID: bson.NewObjectID(), UserID: bson.NewObjectID(), Status: shop.BasketOpen}
			h.baskets.rows[b.ID.Hex()] = b
			md[MetaKind] = orderdal.KindBasket
			md[MetaBasketID] = b.ID.Hex()
			md[MetaUserID] = bson.NewObjectID().Hex()
		},
		"metadata without email": func(h *harness, md map[string]string) {
			delete(md, MetaEmail)
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			md := h.activityMeta("guest@example.com")
			mutate(h, md)

			_, status := h.deliver(sign(eventBody(t, EventPaymentSucceeded, "pi_missing", 5000, md)))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Zero(t, h.orders.writes)
			assert.Empty(t, h.users.rows)
			assert.Empty(t, h.jobs.jobs)
		})
	}
}

func TestMissingReferenceIsFatalNotRetried(t *testing.T) {
	h := newHarness(t)
	md := h.activityMeta("guest@example.com")
	md[MetaScheduleID] = bson.NewObjectID().Hex()
	payload, header := sign(eventBody(t, EventPaymentSucceeded, "pi_x", 5000, md))
	ev, err := VerifyWebhook(payload, header, webhookSecret)
	require.NoError(t, err)

	res := jobqueue.Classify(h.rec.HandleEvent(context.Background(), *ev))
	assert.Equal(t, jobqueue.KindFatal, res.Kind())
}

func TestStoreOutageIsRetryable(t *testing.T) {
	h := newHarness(t)
	h.orders.err = stderrors.New("connection refused")
	payload, header := sign(eventBody(t, EventPaymentSucceeded, "pi_y", 5000, h.activityMeta("guest@example.com")))
	ev, err := VerifyWebhook(payload, header, webhookSecret)
	require.NoError(t, err)

	_, herr := h.rec.HandleEvent(context.Background(), *ev)
	assert.Equal(t, http.StatusInternalServerError, statusOf(herr))
	assert.Equal(t, jobqueue.KindRetryable, jobqueue.Classify(nil, herr).Kind())
}

func TestOrderEventIsRepublishedAfterFailedDelivery(t *testing.T) {
	h := newHarness(t)
	h.producer.err = stderrors.New("broker unavailable")
	payload, header := sign(eventBody(t, EventPaymentSucceeded, "pi_ann", 5000, h.activityMeta("guest@example.com")))

	_, status := h.deliver(payload, header)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Contains(t, h.orders.rows, "pi_ann")
	assert.False(t, h.orders.rows["pi_ann"].Announced)
	assert.Empty(t, h.producer.events)

	h.producer.err = nil
	ack, status := h.deliver(payload, header)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, ack.Created)
	assert.True(t, h.orders.rows["pi_ann"].Announced)
	require.Len(t, h.producer.events, 1)
	assert.Equal(t, ack.OrderNo, h.producer.events[0].OrderNo)

	_, status = h.deliver(payload, header)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, h.producer.events, 1)
	assert.Len(t, h.orders.rows, 1)
}

func TestOtherEventTypesAreAcknowledged(t *testing.T) {
	h := newHarness(t)
	ack, status := h.deliver(sign(eventBody(t, "payment_intent.payment_failed", "pi_f", 0, h.activityMeta("guest@example.com"))))
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ack.Received)
	assert.Zero(t, h.orders.writes)
}

func TestBasketPaymentClosesBasket(t *testing.T) {
	h := newHarness(t)
	owner := bson.NewObjectID()
	b := &shop.Basket{ID: bson.NewObjectID(), UserID: owner, VenueID: bson.NewObjectID(), Status: shop.BasketOpen}
	h.baskets.rows[b.ID.Hex()] = b
	md := map[string]string{
		MetaKind:          orderdal.KindBasket,
		MetaBasketID:      b.ID.Hex(),
		MetaUserID:        owner.Hex(),
		MetaEmail:         "owner@example.com",
		MetaOriginalPrice: "1200",
	}

	_, status := h.deliver(sign(eventBody(t, EventPaymentSucceeded, "pi_basket", 1200, md)))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pi_basket", h.baskets.ordered[b.ID.Hex()])
	o := h.orders.rows["pi_basket"]
	assert.Equal(t, b.VenueID, o.VenueID)
	assert.Equal(t, orderdal.KindBasket, o.Kind)
}

func TestPaidAmountPrefersProvider(t *testing.T) {
	m := &CheckoutMetadata{OriginalPrice: 5000, DiscountAmount: 1000}
	h := newHarness(t)
	_, status := h.deliver(sign(eventBody(t, EventPaymentSucceeded, "pi_amt", 1800, h.activityMeta("guest@example.com"))))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1800), h.orders.rows["pi_amt"].PaidAmount)

	assert.Equal(t, int64(4000), paidAmount(&stripe.PaymentIntent{}, m))
}

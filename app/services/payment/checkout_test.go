package payment

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/tasks"
	"VenueHub/app/dal/activity"
	affiliatedal "VenueHub/app/dal/affiliate"
	orderdal "VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	dealsvc "VenueHub/app/services/deal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type activityGetter map[string]*activity.Activity

func (g activityGetter) Get(_ context.Context, id string) (*activity.Activity, error) {
	a, ok := g[id]
	if !ok {
		return nil, errors.New(errno.ActivityNotFound, "activity not found")
	}
	return a, nil
}

type basketPricer map[string]*shop.Basket

func (p basketPricer) PricedBasket(_ context.Context, userID, basketID string) (*shop.Basket, error) {
	b, ok := p[basketID]
	if !ok || b.UserID.Hex() != userID {
		return nil, errors.New(errno.BasketNotFound, "basket not found")
	}
	return b, nil
}

type flatDiscounts map[string]int64

func (f flatDiscounts) Validate(_ context.Context, code string, amount int64, _ bson.ObjectID) (*dealsvc.Quote, error) {
	off, ok := f[code]
	if !ok {
		return nil, errors.New(errno.DealNotFound, "discount code not found")
	}
	off = min(off, amount)
	return &dealsvc.Quote{Code: code, OriginalAmount: amount, DiscountAmount: off, FinalAmount: amount - off}, nil
}

type referrers map[string]bson.ObjectID

func (r referrers) Referrer(_ context.Context, code string, buyer bson.ObjectID) (*affiliatedal.Affiliate, error) {
	uid, ok := r[code]
	if !ok || uid == buyer {
		return nil, nil
	}
	return &affiliatedal.Affiliate{UserID: uid, Code: code}, nil
}

type checkoutFixture struct {
	checkout  *Checkout
	gateway   *fakeGateway
	activity  *activity.Activity
	schedule  activity.Schedule
	basket    *shop.Basket
	buyer     bson.ObjectID
	affiliate bson.ObjectID
}

func newCheckoutFixture() *checkoutFixture {
	sched := activity.Schedule{ID: bson.NewObjectID(), StartsAt: time.Now().Add(time.Hour), Capacity: 4, PriceCents: 1500}
	act := &activity.Activity{ID: bson.NewObjectID(), VenueID: bson.NewObjectID(), Currency: "eur", Schedules: []activity.Schedule{sched}}
	buyer := bson.NewObjectID()
	basket := &shop.Basket{
		ID:       bson.NewObjectID(),
		UserID:   buyer,
		VenueID:  bson.NewObjectID(),
		Items:    []shop.BasketItem{{ProductID: bson.NewObjectID(), Quantity: 2, UnitPriceCents: 300}},
		Currency: "usd",
		Status:   shop.BasketOpen,
	}
	aff := bson.NewObjectID()
	gw := &fakeGateway{}
	return &checkoutFixture{
		checkout: NewCheckout(
			activityGetter{act.ID.Hex(): act},
			basketPricer{basket.ID.Hex(): basket},
			flatDiscounts{"TENOFF": 1000, "ALMOSTFREE": 1480},
			referrers{"FRIEND": aff, "SELF": buyer},
			gw,
			"usd",
		),
		gateway:   gw,
		activity:  act,
		schedule:  sched,
		basket:    basket,
		buyer:     buyer,
		affiliate: aff,
	}
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	var cm *errors.CodeMsg
	require.ErrorAs(t, err, &cm)
	return cm.Code
}

func TestCreateIntentForActivity(t *testing.T) {
	f := newCheckoutFixture()
	res, err := f.checkout.CreateIntent(context.Background(), tasks.CheckoutPayload{
		RequestID:     "req-1",
		Kind:          orderdal.KindActivity,
		ActivityID:    f.activity.ID.Hex(),
		ScheduleID:    f.schedule.ID.Hex(),
		Quantity:      3,
		DiscountCode:  "TENOFF",
		AffiliateCode: "FRIEND",
		UserID:        f.buyer.Hex(),
		Email:         "Buyer@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, &IntentResult{
		PaymentIntentID: "pi_new",
		ClientSecret:    "pi_new_secret",
		Amount:          3500,
		Currency:        "eur",
		OriginalPrice:   4500,
		DiscountAmount:  1000,
	}, res)

	require.Len(t, f.gateway.intents, 1)
	params := f.gateway.intents[0]
	assert.Equal(t, "req-1", params.IdempotencyKey)
	assert.Equal(t, "buyer@example.com", params.ReceiptEmail)

	meta, err := ParseCheckoutMetadata(params.Metadata)
	require.NoError(t, err)
	assert.Equal(t, f.activity.ID, meta.ActivityID)
	assert.Equal(t, f.schedule.ID, meta.ScheduleID)
	assert.Equal(t, f.activity.VenueID, meta.VenueID)
	assert.Equal(t, f.buyer, meta.UserID)
	assert.Equal(t, int64(3), meta.Quantity)
	assert.Equal(t, int64(4500), meta.OriginalPrice)
	assert.Equal(t, int64(1000), meta.DiscountAmount)
	assert.Equal(t, "TENOFF", meta.DiscountCode)
	assert.Equal(t, f.affiliate, meta.AffiliateUserID)
}

func TestCreateIntentForBasketIgnoresSelfReferral(t *testing.T) {
	f := newCheckoutFixture()
	res, err := f.checkout.CreateIntent(context.Background(), tasks.CheckoutPayload{
		RequestID:     "req-2",
		Kind:          orderdal.KindBasket,
		BasketID:      f.basket.ID.Hex(),
		AffiliateCode: "SELF",
		UserID:        f.buyer.Hex(),
		Email:         "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(600), res.Amount)

	meta, err := ParseCheckoutMetadata(f.gateway.intents[0].Metadata)
	require.NoError(t, err)
	assert.Equal(t, f.basket.ID, meta.BasketID)
	assert.Equal(t, f.basket.VenueID, meta.VenueID)
	assert.True(t, meta.AffiliateUserID.IsZero())
}

func TestCreateIntentValidation(t *testing.T) {
	f := newCheckoutFixture()
	base := func() tasks.CheckoutPayload {
		return tasks.CheckoutPayload{
			RequestID:  "req",
			Kind:       orderdal.KindActivity,
			ActivityID: f.activity.ID.Hex(),
			ScheduleID: f.schedule.ID.Hex(),
			UserID:     f.buyer.Hex(),
			Email:      "buyer@example.com",
		}
	}
	tests := []struct {
		name   string
		mutate func(p *tasks.CheckoutPayload)
		code   int
	}{
		{"unknown activity", func(p *tasks.CheckoutPayload) { p.ActivityID = bson.NewObjectID().Hex() }, errno.ActivityNotFound},
		{"unknown schedule", func(p *tasks.CheckoutPayload) { p.ScheduleID = bson.NewObjectID().Hex() }, errno.ScheduleNotFound},
		{"over capacity", func(p *tasks.CheckoutPayload) { p.Quantity = 5 }, errno.InvalidParam},
		{"bad discount", func(p *tasks.CheckoutPayload) { p.DiscountCode = "NOPE" }, errno.DealNotFound},
		{"no email", func(p *tasks.CheckoutPayload) { p.Email = " " }, errno.InvalidParam},
		{"unknown kind", func(p *tasks.CheckoutPayload) { p.Kind = "gift" }, errno.InvalidParam},
		{"under minimum", func(p *tasks.CheckoutPayload) { p.DiscountCode = "ALMOSTFREE" }, errno.PaymentRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			_, err := f.checkout.CreateIntent(context.Background(), p)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
	assert.Empty(t, f.gateway.intents)
}

func TestProviderErrorsAreClassified(t *testing.T) {
	card := &stripe.Error{HTTPStatusCode: http.StatusPaymentRequired, Msg: "Your card was declined."}
	err := classifyProviderError(fmt.Errorf("create payment intent: %w", card))
	assert.Equal(t, errno.PaymentRejected, codeOf(t, err))

	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError} {
		err := classifyProviderError(fmt.Errorf("wrapped: %w", &stripe.Error{HTTPStatusCode: status}))
		var cm *errors.CodeMsg
		assert.False(t, stderrors.As(err, &cm), "status %d must stay transient", status)
	}
}

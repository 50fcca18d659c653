package payment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/notify"
	"VenueHub/app/common/orderevents"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/dal/activity"
	orderdal "VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	userdal "VenueHub/app/dal/user"

	"github.com/stripe/stripe-go/v79"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	RoomEventOrderPaid    = "order.paid"
)

type Provisioner interface {
	ResolveOrProvision(ctx context.Context, email, name string) (*userdal.User, bool, error)
}

type Redeemer interface {
	Redeem(ctx context.Context, code, paymentIntentID string) error
}

type CommissionRecorder interface {
	RecordCommission(ctx context.Context, affiliateUserID bson.ObjectID, paymentIntentID, orderNo string, paidAmount int64) error
}

// Ack is the job value of a processed webhook event.
type Ack struct {
	Received bool   `json:"received"`
	OrderNo  string `json:"orderNo,omitempty"`
	Created  bool   `json:"created,omitempty"`
}

type Reconciler struct {
	activities  activity.ActivityModel
	baskets     shop.BasketModel
	orders      orderdal.OrderModel
	users       Provisioner
	deals       Redeemer
	affiliates  CommissionRecorder
	gateway     paygateway.Gateway
	rooms       notify.Publisher
	events      orderevents.Producer
	nextOrderNo func() string
}

type ReconcilerDeps struct {
	Activities  activity.ActivityModel
	Baskets     shop.BasketModel
	Orders      orderdal.OrderModel
	Users       Provisioner
	Deals       Redeemer
	Affiliates  CommissionRecorder
	Gateway     paygateway.Gateway
	Rooms       notify.Publisher
	Events      orderevents.Producer
	NextOrderNo func() string
}

func NewReconciler(d ReconcilerDeps) *Reconciler {
	return &Reconciler{
		activities:  d.Activities,
		baskets:     d.Baskets,
		orders:      d.Orders,
		users:       d.Users,
		deals:       d.Deals,
		affiliates:  d.Affiliates,
		gateway:     d.Gateway,
		rooms:       d.Rooms,
		events:      d.Events,
		nextOrderNo: d.NextOrderNo,
	}
}

// VerifyWebhook authenticates a raw delivery before anything else runs.
func VerifyWebhook(payload []byte, header, secret string) (*stripe.Event, error) {
	ev, err := paygateway.VerifyEvent(payload, header, secret)
	if err != nil {
		return nil, errors.New(errno.InvalidSignature, "invalid webhook signature")
	}
	return &ev, nil
}

// HandleEvent applies a verified provider event. Only succeeded payment
// intents change state; every other type is acknowledged untouched.
// Coded errors mean the event can never be applied; any other error is
// transient and the event must be redelivered.
func (r *Reconciler) HandleEvent(ctx context.Context, ev stripe.Event) (*Ack, error) {
	logger := logx.WithContext(ctx).WithFields(logx.Field("eventId", ev.ID), logx.Field("type", string(ev.Type)))
	if string(ev.Type) != EventPaymentSucceeded {
		logger.Infow("webhook event ignored")
		return &Ack{Received: true}, nil
	}
	if ev.Data == nil {
		return nil, errors.New(errno.InvalidParam, "event carries no payment intent")
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil || pi.ID == "" {
		return nil, errors.New(errno.InvalidParam, "event carries no payment intent")
	}
	logger = logger.WithFields(logx.Field("paymentIntentId", pi.ID))

	meta, err := ParseCheckoutMetadata(pi.Metadata)
	if err != nil {
		return nil, err
	}
	venueID, err := r.verifyReferences(ctx, meta)
	if err != nil {
		return nil, err
	}

	buyer, provisioned, err := r.users.ResolveOrProvision(ctx, meta.Email, meta.Name)
	if err != nil {
		return nil, err
	}

	details, err := r.chargeDetails(ctx, &pi)
	if err != nil {
		return nil, err
	}

	o := &orderdal.Order{
		OrderNo:         r.nextOrderNo(),
		PaymentIntentID: pi.ID,
		Kind:            meta.Kind,
		ActivityID:      meta.ActivityID,
		ScheduleID:      meta.ScheduleID,
		BasketID:        meta.BasketID,
		VenueID:         venueID,
		UserID:          buyer.ID,
		Email:           buyer.Email,
		Status:          orderdal.StatusPaid,
		Quantity:        meta.Quantity,
		Currency:        string(pi.Currency),
		OriginalPrice:   meta.OriginalPrice,
		DiscountAmount:  meta.DiscountAmount,
		DiscountCode:    meta.DiscountCode,
		AffiliateUserID: meta.AffiliateUserID,
		PaidAmount:      paidAmount(&pi, meta),
		PaymentMode:     orderdal.ModeTest,
		PaidAt:          time.Unix(ev.Created, 0).UTC(),
		PaymentMetadata: details,
	}
	if pi.Livemode {
		o.PaymentMode = orderdal.ModeLive
	}

	created, err := r.orders.UpsertByPaymentIntent(ctx, o)
	if err != nil {
		return nil, err
	}
	stored, err := r.orders.FindOneByPaymentIntent(ctx, pi.ID)
	if err != nil {
		return nil, err
	}
	logger.Infow("order reconciled",
		logx.Field("orderNo", stored.OrderNo), logx.Field("created", created), logx.Field("provisioned", provisioned))

	if err := r.bookkeeping(ctx, stored); err != nil {
		return nil, err
	}
	if !stored.Announced {
		if err := r.announce(ctx, stored); err != nil {
			return nil, err
		}
		if err := r.orders.MarkAnnounced(ctx, pi.ID); err != nil {
			return nil, err
		}
	}
	return &Ack{Received: true, OrderNo: stored.OrderNo, Created: created}, nil
}

// verifyReferences checks the entities named at checkout still exist and
// returns the venue the purchase belongs to.
func (r *Reconciler) verifyReferences(ctx context.Context, m *CheckoutMetadata) (bson.ObjectID, error) {
	switch m.Kind {
	case orderdal.KindActivity:
		a, err := r.activities.FindOne(ctx, m.ActivityID.Hex())
		if stderrors.Is(err, activity.ErrNotFound) {
			return bson.NilObjectID, errors.New(errno.InvalidParam, "activity no longer exists")
		}
		if err != nil {
			return bson.NilObjectID, err
		}
		if _, ok := a.Schedule(m.ScheduleID.Hex()); !ok {
			return bson.NilObjectID, errors.New(errno.InvalidParam, "schedule no longer exists on activity")
		}
		return a.VenueID, nil
	default:
		b, err := r.baskets.FindOne(ctx, m.BasketID.Hex())
		if stderrors.Is(err, shop.ErrNotFound) {
			return bson.NilObjectID, errors.New(errno.InvalidParam, "basket no longer exists")
		}
		if err != nil {
			return bson.NilObjectID, err
		}
		if b.UserID != m.UserID {
			return bson.NilObjectID, errors.New(errno.InvalidParam, "basket does not belong to payer")
		}
		return b.VenueID, nil
	}
}

func (r *Reconciler) chargeDetails(ctx context.Context, pi *stripe.PaymentIntent) (orderdal.PaymentMetadata, error) {
	ch := pi.LatestCharge
	if ch == nil || ch.ID == "" {
		return orderdal.PaymentMetadata{}, nil
	}
	if ch.PaymentMethodDetails != nil || ch.ReceiptURL != "" {
		md := orderdal.PaymentMetadata{ChargeID: ch.ID, ReceiptURL: ch.ReceiptURL}
		if pm := ch.PaymentMethodDetails; pm != nil && pm.Card != nil {
			md.CardBrand = string(pm.Card.Brand)
			md.CardLast4 = pm.Card.Last4
		}
		return md, nil
	}
	d, err := r.gateway.ChargeDetails(ctx, ch.ID)
	if err != nil {
		return orderdal.PaymentMetadata{}, err
	}
	return orderdal.PaymentMetadata{
		ChargeID:   d.ChargeID,
		CardBrand:  d.CardBrand,
		CardLast4:  d.CardLast4,
		ReceiptURL: d.ReceiptURL,
	}, nil
}

// bookkeeping is keyed by payment intent throughout, so a redelivered
// event repeats it harmlessly.
func (r *Reconciler) bookkeeping(ctx context.Context, o *orderdal.Order) error {
	if o.DiscountCode != "" {
		if err := r.deals.Redeem(ctx, o.DiscountCode, o.PaymentIntentID); err != nil {
			return err
		}
	}
	if !o.AffiliateUserID.IsZero() && o.AffiliateUserID != o.UserID {
		if err := r.affiliates.RecordCommission(ctx, o.AffiliateUserID, o.PaymentIntentID, o.OrderNo, o.PaidAmount); err != nil {
			return err
		}
	}
	if o.Kind == orderdal.KindBasket && !o.BasketID.IsZero() {
		if err := r.baskets.MarkOrdered(ctx, o.BasketID, o.PaymentIntentID); err != nil {
			return err
		}
	}
	return nil
}

// announce publishes the venue room event best effort. The order.paid
// event must go out, so its failure leaves the order unannounced and the
// delivery is retried.
func (r *Reconciler) announce(ctx context.Context, o *orderdal.Order) error {
	logger := logx.WithContext(ctx)
	if !o.VenueID.IsZero() {
		ev := notify.RoomEvent{Type: RoomEventOrderPaid, Data: map[string]any{
			"orderNo":    o.OrderNo,
			"kind":       o.Kind,
			"activityId": o.ActivityID,
			"scheduleId": o.ScheduleID,
			"quantity":   o.Quantity,
		}}
		if err := r.rooms.PublishRoom(ctx, o.VenueID.Hex(), ev); err != nil {
			logger.Errorw("publish order room event failed", logx.Field("err", err.Error()))
		}
	}
	evt := orderevents.OrderPaidEvent{
		OrderNo:         o.OrderNo,
		PaymentIntentID: o.PaymentIntentID,
		UserID:          o.UserID.Hex(),
		Email:           o.Email,
		PaidAmount:      o.PaidAmount,
		Currency:        o.Currency,
		DiscountCode:    o.DiscountCode,
		ReceiptURL:      o.PaymentMetadata.ReceiptURL,
		PaidAt:          o.PaidAt,
	}
	if !o.VenueID.IsZero() {
		evt.VenueID = o.VenueID.Hex()
	}
	if err := r.events.PublishOrderPaid(ctx, evt); err != nil {
		logger.Errorw("publish order event failed", logx.Field("err", err.Error()))
		return err
	}
	return nil
}

// paidAmount trusts the provider's received amount over client metadata.
func paidAmount(pi *stripe.PaymentIntent, m *CheckoutMetadata) int64 {
	if pi.AmountReceived > 0 {
		return pi.AmountReceived
	}
	if paid := m.OriginalPrice - m.DiscountAmount; paid > 0 {
		return paid
	}
	return 0
}

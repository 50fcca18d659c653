package payment

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/common/tasks"
	"VenueHub/app/dal/activity"
	affiliatedal "VenueHub/app/dal/affiliate"
	"VenueHub/app/dal/mongox"
	orderdal "VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	dealsvc "VenueHub/app/services/deal"

	"github.com/stripe/stripe-go/v79"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MinChargeAmount is the smallest amount the provider accepts, in minor
// units.
const MinChargeAmount = 50

type ActivityGetter interface {
	Get(ctx context.Context, id string) (*activity.Activity, error)
}

type BasketPricer interface {
	PricedBasket(ctx context.Context, userID, basketID string) (*shop.Basket, error)
}

type DiscountValidator interface {
	Validate(ctx context.Context, code string, amount int64, venueID bson.ObjectID) (*dealsvc.Quote, error)
}

type ReferrerResolver interface {
	Referrer(ctx context.Context, code string, buyerID bson.ObjectID) (*affiliatedal.Affiliate, error)
}

type IntentResult struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	OriginalPrice   int64  `json:"originalPrice"`
	DiscountAmount  int64  `json:"discountAmount"`
}

type Checkout struct {
	activities ActivityGetter
	baskets    BasketPricer
	deals      DiscountValidator
	affiliates ReferrerResolver
	gateway    paygateway.Gateway
	currency   string
}

func NewCheckout(activities ActivityGetter, baskets BasketPricer, deals DiscountValidator, affiliates ReferrerResolver, gateway paygateway.Gateway, currency string) *Checkout {
	if currency == "" {
		currency = "usd"
	}
	return &Checkout{
		activities: activities,
		baskets:    baskets,
		deals:      deals,
		affiliates: affiliates,
		gateway:    gateway,
		currency:   currency,
	}
}

// CreateIntent prices the request, applies its discount and affiliate
// codes and opens a payment intent carrying everything the webhook needs
// to record the order. RequestID doubles as the provider idempotency key.
func (c *Checkout) CreateIntent(ctx context.Context, req tasks.CheckoutPayload) (*IntentResult, error) {
	buyer, err := mongox.ObjectID(req.UserID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	meta := &CheckoutMetadata{
		Kind:   req.Kind,
		UserID: buyer,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Name:   strings.TrimSpace(req.Name),
	}
	if meta.Email == "" {
		return nil, errors.New(errno.InvalidParam, "an email is required to pay")
	}

	currency := c.currency
	switch req.Kind {
	case orderdal.KindActivity:
		a, err := c.activities.Get(ctx, req.ActivityID)
		if err != nil {
			return nil, err
		}
		if a.Status == activity.StatusCancelled {
			return nil, errors.New(errno.InvalidParam, "activity is cancelled")
		}
		s, ok := a.Schedule(req.ScheduleID)
		if !ok {
			return nil, errors.New(errno.ScheduleNotFound, "schedule not found")
		}
		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}
		if s.Capacity > 0 && qty > int64(s.Capacity) {
			return nil, errors.New(errno.InvalidParam, "quantity exceeds schedule capacity")
		}
		meta.ActivityID, meta.ScheduleID, meta.VenueID = a.ID, s.ID, a.VenueID
		meta.Quantity = qty
		meta.OriginalPrice = s.PriceCents * qty
		if a.Currency != "" {
			currency = a.Currency
		}
	case orderdal.KindBasket:
		b, err := c.baskets.PricedBasket(ctx, req.UserID, req.BasketID)
		if err != nil {
			return nil, err
		}
		meta.BasketID, meta.VenueID = b.ID, b.VenueID
		meta.Quantity = 1
		meta.OriginalPrice = b.Total()
		if b.Currency != "" {
			currency = b.Currency
		}
	default:
		return nil, errors.New(errno.InvalidParam, "kind must be activity or basket")
	}

	if req.DiscountCode != "" {
		q, err := c.deals.Validate(ctx, req.DiscountCode, meta.OriginalPrice, meta.VenueID)
		if err != nil {
			return nil, err
		}
		meta.DiscountCode = q.Code
		meta.DiscountAmount = q.DiscountAmount
	}
	if req.AffiliateCode != "" {
		aff, err := c.affiliates.Referrer(ctx, req.AffiliateCode, buyer)
		if err != nil {
			return nil, err
		}
		if aff != nil {
			meta.AffiliateUserID = aff.UserID
		}
	}

	amount := meta.OriginalPrice - meta.DiscountAmount
	if amount < MinChargeAmount {
		return nil, errors.New(errno.PaymentRejected, "amount is below the minimum chargeable")
	}

	intent, err := c.gateway.CreateIntent(ctx, paygateway.IntentParams{
		Amount:         amount,
		Currency:       currency,
		ReceiptEmail:   meta.Email,
		Metadata:       meta.Encode(),
		IdempotencyKey: req.RequestID,
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}
	logx.WithContext(ctx).Infow("payment intent created",
		logx.Field("paymentIntentId", intent.ID), logx.Field("amount", amount), logx.Field("kind", req.Kind))

	return &IntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		OriginalPrice:   meta.OriginalPrice,
		DiscountAmount:  meta.DiscountAmount,
	}, nil
}

// classifyProviderError turns deterministic provider rejections into coded
// errors so they are not retried. Rate limits and outages stay transient.
func classifyProviderError(err error) error {
	var se *stripe.Error
	if !stderrors.As(err, &se) {
		return err
	}
	if se.HTTPStatusCode >= http.StatusBadRequest && se.HTTPStatusCode < http.StatusInternalServerError &&
		se.HTTPStatusCode != http.StatusTooManyRequests && se.HTTPStatusCode != http.StatusConflict {
		return errors.New(errno.PaymentRejected, se.Msg)
	}
	return err
}

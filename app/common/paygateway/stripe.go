package paygateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeConf struct {
	SecretKey     string `json:",optional"`
	WebhookSecret string
	Currency      string `json:",default=usd"`
}

type IntentParams struct {
	Amount         int64
	Currency       string
	ReceiptEmail   string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

type ChargeDetails struct {
	ChargeID   string
	CardBrand  string
	CardLast4  string
	ReceiptURL string
}

// Gateway is the slice of the payment provider the workflows call.
type Gateway interface {
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
	ChargeDetails(ctx context.Context, chargeID string) (*ChargeDetails, error)
}

type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(c StripeConf) *StripeGateway {
	return &StripeGateway{api: client.New(c.SecretKey, nil)}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if p.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(p.ReceiptEmail)
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func (g *StripeGateway) ChargeDetails(ctx context.Context, chargeID string) (*ChargeDetails, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx
	ch, err := g.api.Charges.Get(chargeID, params)
	if err != nil {
		return nil, fmt.Errorf("get charge %s: %w", chargeID, err)
	}
	out := &ChargeDetails{ChargeID: ch.ID, ReceiptURL: ch.ReceiptURL}
	if pm := ch.PaymentMethodDetails; pm != nil && pm.Card != nil {
		out.CardBrand = string(pm.Card.Brand)
		out.CardLast4 = pm.Card.Last4
	}
	return out, nil
}

// VerifyEvent checks the Stripe-Signature header against the endpoint
// secret and decodes the event. Any byte changed after signing fails.
func VerifyEvent(payload []byte, header, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, header, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

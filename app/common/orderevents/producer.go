package orderevents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const TypeOrderPaid = "order.paid"

type KafkaConf struct {
	Broker []string `json:",optional"`
	Topic  string   `json:",default=order-events"`
	Group  string   `json:",default=venuehub-worker"`
}

func (c KafkaConf) Enabled() bool {
	return len(c.Broker) > 0 && c.Topic != ""
}

type OrderPaidEvent struct {
	Type            string    `json:"type"`
	OrderNo         string    `json:"orderNo"`
	PaymentIntentID string    `json:"paymentIntentId"`
	UserID          string    `json:"userId"`
	Email           string    `json:"email"`
	VenueID         string    `json:"venueId,omitempty"`
	PaidAmount      int64     `json:"paidAmount"`
	Currency        string    `json:"currency"`
	DiscountCode    string    `json:"discountCode,omitempty"`
	ReceiptURL      string    `json:"receiptUrl,omitempty"`
	PaidAt          time.Time `json:"paidAt"`
}

type Producer interface {
	PublishOrderPaid(ctx context.Context, evt OrderPaidEvent) error
}

// KafkaProducer keys messages by payment intent so redeliveries of one
// payment land on one partition.
type KafkaProducer struct {
	w *kafka.Writer
}

func NewKafkaProducer(c KafkaConf) *KafkaProducer {
	return &KafkaProducer{w: &kafka.Writer{
		Addr:                   kafka.TCP(c.Broker...),
		Topic:                  c.Topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           5 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaProducer) PublishOrderPaid(ctx context.Context, evt OrderPaidEvent) error {
	evt.Type = TypeOrderPaid
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(evt.PaymentIntentID), Value: body})
}

func (p *KafkaProducer) Close() error {
	return p.w.Close()
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderPaid(context.Context, OrderPaidEvent) error { return nil }

package orderevents

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

type Handler func(context.Context, OrderPaidEvent) error

// Consume reads order events until ctx is done. An offset is committed
// only once handle succeeded or failed with a coded error; transient
// failures are retried with backoff and an event still pending at
// shutdown is redelivered.
func Consume(ctx context.Context, c KafkaConf, handle Handler) error {
	if !c.Enabled() || c.Group == "" {
		return nil
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Broker,
		GroupID:     c.Group,
		Topic:       c.Topic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		StartOffset: kafka.FirstOffset,
	})
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.Errorw("fetch order event", logx.Field("err", err.Error()))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		var evt OrderPaidEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			logx.Errorw("malformed order event", logx.Field("offset", m.Offset), logx.Field("err", err.Error()))
		} else if evt.Type == TypeOrderPaid {
			if err := handleWithRetry(ctx, evt, handle, newBackOff()); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logx.Errorw("drop order event", logx.Field("orderNo", evt.OrderNo), logx.Field("err", err.Error()))
			}
		}
		if err := r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			logx.Errorw("commit order event", logx.Field("err", err.Error()))
		}
	}
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// handleWithRetry runs handle until it succeeds, fails with a coded error
// or ctx is done.
func handleWithRetry(ctx context.Context, evt OrderPaidEvent, handle Handler, b backoff.BackOff) error {
	op := func() error {
		err := handle(ctx, evt)
		var cm *errors.CodeMsg
		if stderrors.As(err, &cm) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		logx.Errorw("handle order event",
			logx.Field("orderNo", evt.OrderNo), logx.Field("retryIn", next.String()), logx.Field("err", err.Error()))
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

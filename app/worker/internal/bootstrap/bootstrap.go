package bootstrap

import (
	"context"
	"time"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/orderevents"
	"VenueHub/app/services/notification"
	"VenueHub/app/worker/internal/config"
	"VenueHub/app/worker/internal/mq"
	"VenueHub/app/worker/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

var defaultQueues = map[string]config.QueueConf{
	biz.QueueActivities:    {Concurrency: 20, MaxCompleted: 500, ShutdownSeconds: 5},
	biz.QueuePayments:      {Concurrency: 10, MaxCompleted: 1000, ShutdownSeconds: 30},
	biz.QueueNotifications: {Concurrency: 5, MaxCompleted: 5000, ShutdownSeconds: 10},
}

// QueueOptions merges configured queue settings over the defaults.
func QueueOptions(c config.Config) map[string]jobqueue.QueueOptions {
	out := make(map[string]jobqueue.QueueOptions, len(defaultQueues))
	for name, qc := range defaultQueues {
		if override, ok := c.Queues[name]; ok {
			qc = override
		}
		out[name] = jobqueue.QueueOptions{
			Concurrency:     qc.Concurrency,
			MaxCompleted:    qc.MaxCompleted,
			ShutdownTimeout: time.Duration(qc.ShutdownSeconds) * time.Second,
		}
	}
	return out
}

// Start runs the queue workers, the retention janitor and the order event
// consumer. The returned func stops all of them.
func Start(sc *svc.ServiceContext) (func(), error) {
	pool := jobqueue.NewPool(sc.AsynqOpt, sc.Rdb)
	for name, opts := range QueueOptions(sc.Config) {
		pool.Queue(name, opts)
	}
	mq.NewHandlersFromContext(sc).Register(pool)
	if err := pool.Start(); err != nil {
		return nil, err
	}

	janitor := jobqueue.NewJanitor(sc.Inspector, pool.Queues())
	if err := janitor.Start(sc.Config.JanitorSpec); err != nil {
		pool.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := orderevents.Consume(ctx, sc.Config.KafkaConf, func(ctx context.Context, evt orderevents.OrderPaidEvent) error {
			return notification.QueueOrderPaid(ctx, sc.Jobs, evt)
		})
		if err != nil {
			logx.Errorw("order event consumer stopped", logx.Field("err", err.Error()))
		}
	}()

	return func() {
		cancel()
		<-done
		janitor.Stop()
		pool.Stop()
	}, nil
}

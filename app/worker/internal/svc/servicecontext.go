package svc

import (
	"context"
	"time"

	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/mailer"
	"VenueHub/app/common/notify"
	"VenueHub/app/common/orderevents"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/common/snowflake"
	"VenueHub/app/common/storage"
	"VenueHub/app/dal"
	activitydal "VenueHub/app/dal/activity"
	affiliatedal "VenueHub/app/dal/affiliate"
	dealdal "VenueHub/app/dal/deal"
	orderdal "VenueHub/app/dal/order"
	shopdal "VenueHub/app/dal/shop"
	userdal "VenueHub/app/dal/user"
	venuedal "VenueHub/app/dal/venue"
	"VenueHub/app/services/account"
	"VenueHub/app/services/activity"
	"VenueHub/app/services/affiliate"
	"VenueHub/app/services/deal"
	"VenueHub/app/services/notification"
	"VenueHub/app/services/payment"
	"VenueHub/app/services/shop"
	"VenueHub/app/services/venue"
	"VenueHub/app/worker/internal/config"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type ServiceContext struct {
	Config config.Config

	Rdb       goredis.UniversalClient
	AsynqOpt  asynq.RedisClientOpt
	Inspector *asynq.Inspector
	Jobs      *jobqueue.Bridge
	Events    orderevents.Producer

	Activities    *activity.Service
	Checkout      *payment.Checkout
	Reconciler    *payment.Reconciler
	Notifications *notification.Service

	client *asynq.Client
}

func NewServiceContext(c config.Config) *ServiceContext {
	c.MustSetUp()
	if err := snowflake.SetNodeID(c.SnowflakeNode); err != nil {
		logx.Must(err)
	}

	m := c.Mongo
	ctx, cancel := context.WithTimeout(context.Background(), c.Mongo.Timeout)
	defer cancel()
	if err := dal.EnsureIndexes(ctx, m); err != nil {
		logx.Must(err)
	}

	addr := c.AsynqConf.Addr
	if addr == "" {
		addr = c.RedisConf.Host
	}
	asynqOpt := asynq.RedisClientOpt{Addr: addr, Password: c.AsynqConf.Password, DB: c.AsynqConf.DB}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: c.AsynqConf.Password, DB: c.AsynqConf.DB})
	client := asynq.NewClient(asynqOpt)
	inspector := asynq.NewInspector(asynqOpt)
	jobs := jobqueue.NewBridge(client, inspector, rdb, time.Duration(c.AwaitTimeoutSeconds)*time.Second)
	kv := redis.MustNewRedis(c.RedisConf)

	uploader, err := storage.NewS3Uploader(ctx, c.S3)
	logx.Must(err)

	var events orderevents.Producer = orderevents.Noop{}
	if c.KafkaConf.Enabled() {
		events = orderevents.NewKafkaProducer(c.KafkaConf)
	}

	users := userdal.NewUserModel(m.URI, m.Database, userdal.Collection)
	activities := activitydal.NewActivityModel(m.URI, m.Database, activitydal.Collection)
	baskets := shopdal.NewBasketModel(m.URI, m.Database, shopdal.BasketCollection)
	orders := orderdal.NewOrderModel(m.URI, m.Database, orderdal.Collection)

	venues := venue.NewService(venuedal.NewVenueModel(m.URI, m.Database, venuedal.Collection))
	accounts := account.NewService(users, kv, jobs, c.Auth, c.SetupURL)
	deals := deal.NewService(dealdal.NewDiscountCodeModel(m.URI, m.Database, dealdal.Collection))
	affiliates := affiliate.NewService(affiliatedal.NewAffiliateModel(m.URI, m.Database, affiliatedal.Collection), affiliatedal.NewCommissionModel(m.URI, m.Database, affiliatedal.CommissionCollection), kv, c.CommissionPercent)
	activitySvc := activity.NewService(activities, users, venues, uploader)
	shopSvc := shop.NewService(shopdal.NewProductModel(m.URI, m.Database, shopdal.ProductCollection), baskets, orders, venues)
	gateway := paygateway.NewStripeGateway(c.Stripe)

	return &ServiceContext{
		Config:     c,
		Rdb:        rdb,
		AsynqOpt:   asynqOpt,
		Inspector:  inspector,
		Jobs:       jobs,
		Events:     events,
		Activities: activitySvc,
		Checkout:   payment.NewCheckout(activitySvc, shopSvc, deals, affiliates, gateway, c.Stripe.Currency),
		Reconciler: payment.NewReconciler(payment.ReconcilerDeps{
			Activities:  activities,
			Baskets:     baskets,
			Orders:      orders,
			Users:       accounts,
			Deals:       deals,
			Affiliates:  affiliates,
			Gateway:     gateway,
			Rooms:       notify.NewRoomPublisher(rdb),
			Events:      events,
			NextOrderNo: snowflake.NextOrderNo,
		}),
		Notifications: notification.NewService(mailer.NewRenderer(), mailer.NewSender(c.Mailgun)),
		client:        client,
	}
}

// Close releases the broker and event connections.
func (s *ServiceContext) Close() {
	if err := s.Jobs.Close(); err != nil {
		logx.Errorw("close job bridge", logx.Field("err", err.Error()))
	}
	if kp, ok := s.Events.(*orderevents.KafkaProducer); ok {
		_ = kp.Close()
	}
	_ = s.client.Close()
	_ = s.Inspector.Close()
	_ = s.Rdb.Close()
}

package svc

import (
	"context"
	"time"

	"VenueHub/app/api/booking/internal/config"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/middleware"
	"VenueHub/app/common/notify"
	"VenueHub/app/common/storage"
	activitydal "VenueHub/app/dal/activity"
	affiliatedal "VenueHub/app/dal/affiliate"
	dealdal "VenueHub/app/dal/deal"
	orderdal "VenueHub/app/dal/order"
	shopdal "VenueHub/app/dal/shop"
	tabledal "VenueHub/app/dal/table"
	userdal "VenueHub/app/dal/user"
	venuedal "VenueHub/app/dal/venue"
	"VenueHub/app/services/account"
	"VenueHub/app/services/activity"
	"VenueHub/app/services/affiliate"
	"VenueHub/app/services/deal"
	"VenueHub/app/services/shop"
	"VenueHub/app/services/table"
	"VenueHub/app/services/venue"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

// JobCaller runs a job on the worker pool and waits for its reply.
type JobCaller interface {
	Call(ctx context.Context, queue, name string, payload any, opts jobqueue.Options, out any) error
}

type ServiceContext struct {
	Config           config.Config
	AuthMiddleware   rest.Middleware
	CasbinMiddleware rest.Middleware

	Jobs JobCaller

	Accounts   *account.Service
	Venues     *venue.Service
	Activities *activity.Service
	Tables     *table.Service
	Shop       *shop.Service
	Deals      *deal.Service
	Affiliates *affiliate.Service

	closers []func() error
}

func NewServiceContext(c config.Config) *ServiceContext {
	m := c.Mongo
	kv := redis.MustNewRedis(c.RedisConf)

	addr := c.AsynqConf.Addr
	if addr == "" {
		addr = c.RedisConf.Host
	}
	asynqOpt := asynq.RedisClientOpt{Addr: addr, Password: c.AsynqConf.Password, DB: c.AsynqConf.DB}
	asynqClient := asynq.NewClient(asynqOpt)
	inspector := asynq.NewInspector(asynqOpt)
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: c.AsynqConf.Password, DB: c.AsynqConf.DB})
	jobs := jobqueue.NewBridge(asynqClient, inspector, rdb, time.Duration(c.AwaitTimeoutSeconds)*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), c.Mongo.Timeout)
	defer cancel()
	uploader, err := storage.NewS3Uploader(ctx, c.S3)
	logx.Must(err)

	users := userdal.NewUserModel(m.URI, m.Database, userdal.Collection)
	orders := orderdal.NewOrderModel(m.URI, m.Database, orderdal.Collection)
	venues := venue.NewService(venuedal.NewVenueModel(m.URI, m.Database, venuedal.Collection))

	return &ServiceContext{
		Config:           c,
		AuthMiddleware:   middleware.NewAuthMiddleware(c.Auth).Handle,
		CasbinMiddleware: middleware.NewCasbinMiddleware(c.Casbin.MustNewEnforcer()).Handle,
		Jobs:             jobs,
		Accounts:         account.NewService(users, kv, jobs, c.Auth, c.SetupURL),
		Venues:           venues,
		Activities:       activity.NewService(activitydal.NewActivityModel(m.URI, m.Database, activitydal.Collection), users, venues, uploader),
		Tables:           table.NewService(tabledal.NewTableModel(m.URI, m.Database, tabledal.Collection), tabledal.NewReservationModel(m.URI, m.Database, tabledal.ReservationCollection), venues, notify.NewRoomPublisher(rdb)),
		Shop:             shop.NewService(shopdal.NewProductModel(m.URI, m.Database, shopdal.ProductCollection), shopdal.NewBasketModel(m.URI, m.Database, shopdal.BasketCollection), orders, venues),
		Deals:            deal.NewService(dealdal.NewDiscountCodeModel(m.URI, m.Database, dealdal.Collection)),
		Affiliates:       affiliate.NewService(affiliatedal.NewAffiliateModel(m.URI, m.Database, affiliatedal.Collection), affiliatedal.NewCommissionModel(m.URI, m.Database, affiliatedal.CommissionCollection), kv, c.CommissionPercent),
		closers:          []func() error{jobs.Close, asynqClient.Close, inspector.Close, rdb.Close},
	}
}

func (s *ServiceContext) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logx.Errorw("close resource", logx.Field("err", err.Error()))
		}
	}
}

package config

import (
	"VenueHub/app/common/mailer"
	"VenueHub/app/common/orderevents"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/common/storage"
	"VenueHub/app/common/token"
	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type Config struct {
	service.ServiceConf

	RedisConf redis.RedisConf
	Mongo     mongox.MongoConf

	AsynqConf AsynqRedisConf
	Queues    map[string]QueueConf `json:",optional"`
	// JanitorSpec is a robfig/cron spec for the retention sweep.
	JanitorSpec string `json:",default=@every 1m"`

	Auth      token.Conf
	Stripe    paygateway.StripeConf
	Mailgun   mailer.MailgunConf
	S3        storage.S3Conf
	KafkaConf orderevents.KafkaConf

	SetupURL            string `json:",default=http://localhost:3000/set-password"`
	CommissionPercent   int64  `json:",default=10"`
	SnowflakeNode       int64  `json:",default=1"`
	AwaitTimeoutSeconds int    `json:",default=30"`
}

// AsynqRedisConf is the broker connection; Addr falls back to RedisConf.Host.
type AsynqRedisConf struct {
	Addr     string `json:",optional"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}

type QueueConf struct {
	Concurrency     int `json:",default=10"`
	MaxCompleted    int `json:",default=1000"`
	ShutdownSeconds int `json:",default=10"`
}

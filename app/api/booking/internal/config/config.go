package config

import (
	commonconfig "VenueHub/app/common/config"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/common/storage"
	"VenueHub/app/common/token"
	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf

	RedisConf redis.RedisConf
	Mongo     mongox.MongoConf
	AsynqConf AsynqRedisConf

	Auth   token.Conf
	Casbin commonconfig.CasbinConf
	Stripe paygateway.StripeConf
	S3     storage.S3Conf

	SetupURL            string `json:",default=http://localhost:3000/set-password"`
	CommissionPercent   int64  `json:",default=10"`
	AwaitTimeoutSeconds int    `json:",default=30"`
}

// AsynqRedisConf is the broker connection; Addr falls back to RedisConf.Host.
type AsynqRedisConf struct {
	Addr     string `json:",optional"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}

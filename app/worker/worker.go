package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"VenueHub/app/worker/internal/bootstrap"
	"VenueHub/app/worker/internal/config"
	"VenueHub/app/worker/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

var configFile = flag.String("f", "etc/booking-worker.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)
	ctx := svc.NewServiceContext(c)
	defer ctx.Close()

	stop, err := bootstrap.Start(ctx)
	if err != nil {
		logx.Errorw("start worker error", logx.Field("err", err.Error()))
		panic(err)
	}
	defer stop()

	fmt.Printf("Starting worker %s...\n", c.Name)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logx.Info("shutting down worker")
}

package jobqueue

import (
	"fmt"
	"os"

	"github.com/zeromicro/go-zero/core/logx"
)

// logxLogger routes asynq's internal logging through logx.
type logxLogger struct{}

func (logxLogger) Debug(args ...any) { logx.Debug(args...) }

func (logxLogger) Info(args ...any) { logx.Info(args...) }

func (logxLogger) Warn(args ...any) {
	logx.Infow(fmt.Sprint(args...), logx.Field("severity", "warn"))
}

func (logxLogger) Error(args ...any) { logx.Error(args...) }

func (logxLogger) Fatal(args ...any) {
	logx.Severe(fmt.Sprint(args...))
	os.Exit(1)
}

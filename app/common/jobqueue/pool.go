package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"VenueHub/app/common/consts/errno"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
)

// Handler runs one attempt of a job. The payload is the raw JSON the
// producer enqueued.
type Handler func(ctx context.Context, payload json.RawMessage) Result

type taskMeta struct {
	ID       string
	Retried  int
	MaxRetry int
}

func asynqMeta(ctx context.Context) taskMeta {
	id, _ := asynq.GetTaskID(ctx)
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	return taskMeta{ID: id, Retried: retried, MaxRetry: maxRetry}
}

type workerQueue struct {
	name     string
	opts     QueueOptions
	handlers map[string]Handler
}

// Pool hosts named workers grouped by queue. Each queue gets its own asynq
// server so concurrency is set per queue.
type Pool struct {
	redisOpt asynq.RedisConnOpt
	rep      reporter
	meta     func(context.Context) taskMeta

	mu      sync.Mutex
	queues  map[string]*workerQueue
	servers []*asynq.Server
}

func NewPool(redisOpt asynq.RedisConnOpt, rdb redis.UniversalClient) *Pool {
	return &Pool{
		redisOpt: redisOpt,
		rep:      reporter{rdb: rdb},
		meta:     asynqMeta,
		queues:   make(map[string]*workerQueue),
	}
}

func (p *Pool) Queue(name string, opts QueueOptions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue(name).opts = opts
}

func (p *Pool) Register(queue, name string, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue(queue).handlers[name] = h
}

func (p *Pool) queue(name string) *workerQueue {
	q, ok := p.queues[name]
	if !ok {
		q = &workerQueue{name: name, opts: QueueOptions{Concurrency: 10}, handlers: make(map[string]Handler)}
		p.queues[name] = q
	}
	return q
}

// Queues returns a snapshot of the configured queues.
func (p *Pool) Queues() map[string]QueueOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]QueueOptions, len(p.queues))
	for name, q := range p.queues {
		out[name] = q.opts
	}
	return out
}

func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.queues))
	for name := range p.queues {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		q := p.queues[name]
		concurrency := q.opts.Concurrency
		if concurrency <= 0 {
			concurrency = 10
		}
		srv := asynq.NewServer(p.redisOpt, asynq.Config{
			Concurrency:              concurrency,
			Queues:                   map[string]int{name: 1},
			RetryDelayFunc:           p.retryDelay,
			ShutdownTimeout:          q.opts.ShutdownTimeout,
			TaskCheckInterval:        q.opts.PollInterval,
			DelayedTaskCheckInterval: q.opts.PollInterval,
			Logger:                   logxLogger{},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
				m := p.meta(ctx)
				logx.WithContext(ctx).Errorw("job attempt failed",
					logx.Field("queue", name), logx.Field("job", t.Type()), logx.Field("id", m.ID),
					logx.Field("retried", m.Retried), logx.Field("maxRetry", m.MaxRetry), logx.Field("err", err.Error()))
			}),
		})

		mux := asynq.NewServeMux()
		for jobName := range q.handlers {
			mux.HandleFunc(jobName, func(ctx context.Context, t *asynq.Task) error {
				return p.process(ctx, q, t)
			})
		}
		if err := srv.Start(mux); err != nil {
			p.stopLocked()
			return fmt.Errorf("start queue %s: %w", name, err)
		}
		p.servers = append(p.servers, srv)
		logx.Infow("queue worker started", logx.Field("queue", name), logx.Field("concurrency", concurrency))
	}
	return nil
}

func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Pool) stopLocked() {
	for _, srv := range p.servers {
		srv.Shutdown()
	}
	p.servers = nil
}

// retryDelay reads the backoff policy the producer stored in the envelope.
func (p *Pool) retryDelay(n int, err error, t *asynq.Task) time.Duration {
	env, derr := decodeEnvelope(t.Payload())
	if derr != nil || env.BackoffDelayMs <= 0 {
		return asynq.DefaultRetryDelayFunc(n, err, t)
	}
	return env.backoff().DelayFor(n)
}

func (p *Pool) process(ctx context.Context, q *workerQueue, t *asynq.Task) error {
	m := p.meta(ctx)
	logger := logx.WithContext(ctx).WithFields(
		logx.Field("queue", q.name), logx.Field("job", t.Type()),
		logx.Field("id", m.ID), logx.Field("attempt", m.Retried+1))
	reportCtx := context.WithoutCancel(ctx)

	h, ok := q.handlers[t.Type()]
	if !ok {
		reason := "no handler registered for " + t.Type()
		p.finish(reportCtx, logger, q.name, event{JobID: m.ID, Status: statusFailed, Reason: reason}, defaultParkTTL)
		return fmt.Errorf("%s: %w", reason, asynq.SkipRetry)
	}
	env, err := decodeEnvelope(t.Payload())
	if err != nil {
		reason := "malformed job envelope: " + err.Error()
		p.finish(reportCtx, logger, q.name, event{JobID: m.ID, Status: statusFailed, Reason: reason}, defaultParkTTL)
		return fmt.Errorf("%s: %w", reason, asynq.SkipRetry)
	}

	res := run(ctx, h, env.Data)
	if res.kind == KindRetryable {
		if m.Retried >= m.MaxRetry {
			logger.Errorw("job exhausted its attempts", logx.Field("err", res.err.Error()))
			p.finish(reportCtx, logger, q.name, event{JobID: m.ID, Status: statusFailed, Reason: res.err.Error()}, env.failTTL())
		} else {
			logger.Infow("job attempt failed, retrying", logx.Field("err", res.err.Error()))
		}
		return res.err
	}

	reply, err := res.reply()
	if err != nil {
		reply = Reply{
			Error:   true,
			Code:    errno.InternalError,
			Status:  errno.HTTPStatus(errno.InternalError),
			Message: "encode job result: " + err.Error(),
		}
	}
	if reply.Error {
		logger.Infow("job completed with domain error", logx.Field("code", reply.Code), logx.Field("msg", reply.Message))
	}
	if w := t.ResultWriter(); w != nil {
		if b, err := json.Marshal(reply); err == nil {
			_, _ = w.Write(b)
		}
	}
	p.finish(reportCtx, logger, q.name, event{JobID: m.ID, Status: statusCompleted, Reply: &reply}, env.resultTTL())
	return nil
}

func (p *Pool) finish(ctx context.Context, logger logx.Logger, queue string, ev event, ttl time.Duration) {
	if err := p.rep.report(ctx, queue, ev, ttl); err != nil {
		logger.Errorw("report job outcome failed", logx.Field("err", err.Error()))
	}
}

func run(ctx context.Context, h Handler, payload json.RawMessage) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Retryable(fmt.Errorf("handler panic: %v", r))
		}
	}()
	return h(ctx, payload)
}

package jobqueue

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"VenueHub/app/common/consts/errno"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

const DefaultAwaitTimeout = 30 * time.Second

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskLookup is the subset of *asynq.Inspector used to resolve job id
// conflicts.
type TaskLookup interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
}

type JobHandle struct {
	Queue string
	Name  string
	ID    string
	// Attached is set when the enqueue hit a live or completed job with the
	// same id.
	Attached bool

	settled *event
}

// Bridge turns a queued job into an awaitable call. All awaits on one
// queue share a single pub/sub subscription.
type Bridge struct {
	client       Enqueuer
	tasks        TaskLookup
	rdb          redis.UniversalClient
	awaitTimeout time.Duration
	now          func() time.Time

	mu   sync.Mutex
	subs map[string]*subscription
}

// NewBridge builds a bridge over an asynq client. tasks may be nil, in
// which case a duplicate job id always attaches to the retained job.
func NewBridge(client Enqueuer, tasks TaskLookup, rdb redis.UniversalClient, awaitTimeout time.Duration) *Bridge {
	if awaitTimeout <= 0 {
		awaitTimeout = DefaultAwaitTimeout
	}
	return &Bridge{
		client:       client,
		tasks:        tasks,
		rdb:          rdb,
		awaitTimeout: awaitTimeout,
		now:          time.Now,
		subs:         make(map[string]*subscription),
	}
}

// Enqueue durably writes the job to the broker. The caller does not own
// the job: it runs to completion even if ctx is cancelled afterwards.
func (b *Bridge) Enqueue(ctx context.Context, queue, name string, payload any, opts Options) (*JobHandle, error) {
	opts = opts.normalize()
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	body, err := json.Marshal(newEnvelope(data, opts, b.now()))
	if err != nil {
		return nil, err
	}

	id := opts.JobID
	if id == "" {
		id = uuid.NewString()
	}
	taskOpts := []asynq.Option{
		asynq.Queue(queue),
		asynq.TaskID(id),
		asynq.MaxRetry(opts.Attempts),
		asynq.Retention(opts.RemoveOnComplete.Age),
	}
	if opts.Timeout > 0 {
		taskOpts = append(taskOpts, asynq.Timeout(opts.Timeout))
	}

	h := &JobHandle{Queue: queue, Name: name, ID: id}
	task := asynq.NewTask(name, body)
	_, err = b.client.EnqueueContext(ctx, task, taskOpts...)
	switch {
	case err == nil:
		return h, nil
	case stderrors.Is(err, asynq.ErrTaskIDConflict):
		return b.resolveConflict(ctx, h, task, taskOpts)
	default:
		return nil, fmt.Errorf("enqueue %s: %w", name, err)
	}
}

// resolveConflict decides what a duplicate job id means. A job that is
// still queued, running or retrying is attached to, and so is a completed
// one whose reply is retained. A job that exhausted its attempts is
// discarded together with its parked failure and enqueued afresh, so a
// redelivery after an outage runs the handler again.
func (b *Bridge) resolveConflict(ctx context.Context, h *JobHandle, task *asynq.Task, taskOpts []asynq.Option) (*JobHandle, error) {
	logger := logx.WithContext(ctx).WithFields(
		logx.Field("queue", h.Queue), logx.Field("job", h.Name), logx.Field("id", h.ID))
	if b.tasks == nil {
		logger.Info("attaching to existing job")
		h.Attached = true
		return h, nil
	}

	for range 2 {
		info, err := b.tasks.GetTaskInfo(h.Queue, h.ID)
		switch {
		case stderrors.Is(err, asynq.ErrTaskNotFound):
			// purged between the enqueue and the lookup
		case err != nil:
			return nil, fmt.Errorf("inspect job %s: %w", h.ID, err)
		case info.State == asynq.TaskStateArchived:
			logger.Infow("replacing exhausted job", logx.Field("lastErr", info.LastErr))
			if err := b.tasks.DeleteTask(h.Queue, h.ID); err != nil && !stderrors.Is(err, asynq.ErrTaskNotFound) {
				return nil, fmt.Errorf("delete exhausted job %s: %w", h.ID, err)
			}
			if err := b.rdb.Del(ctx, resultKey(h.Queue, h.ID)).Err(); err != nil {
				return nil, fmt.Errorf("drop parked result %s: %w", h.ID, err)
			}
		case info.State == asynq.TaskStateCompleted:
			logger.Info("attaching to completed job")
			h.Attached = true
			if len(info.Result) > 0 {
				var reply Reply
				if err := json.Unmarshal(info.Result, &reply); err == nil {
					h.settled = &event{JobID: h.ID, Status: statusCompleted, Reply: &reply}
				}
			}
			return h, nil
		default:
			logger.Infow("attaching to existing job", logx.Field("state", info.State.String()))
			h.Attached = true
			return h, nil
		}

		_, err = b.client.EnqueueContext(ctx, task, taskOpts...)
		if err == nil {
			return h, nil
		}
		if !stderrors.Is(err, asynq.ErrTaskIDConflict) {
			return nil, fmt.Errorf("enqueue %s: %w", h.Name, err)
		}
	}

	// another producer re-enqueued it first
	h.Attached = true
	return h, nil
}

// Await blocks until the job completes, its last attempt fails, timeout
// elapses or ctx is done. A zero timeout uses the bridge default.
func (b *Bridge) Await(ctx context.Context, h *JobHandle, timeout time.Duration) (json.RawMessage, error) {
	if timeout <= 0 {
		timeout = b.awaitTimeout
	}
	if h.settled != nil {
		return h.settled.outcome()
	}

	ch, cancel, err := b.watch(ctx, h.Queue, h.ID)
	if err != nil {
		return nil, err
	}
	defer cancel()

	// The waiter is registered first so a completion between the lookup
	// and the select is not lost.
	if ev, ok, err := parked(ctx, b.rdb, h.Queue, h.ID); err != nil {
		return nil, err
	} else if ok {
		return ev.outcome()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-ch:
		return ev.outcome()
	case <-timer.C:
		logx.WithContext(ctx).Errorw("job await timed out",
			logx.Field("queue", h.Queue), logx.Field("job", h.Name), logx.Field("id", h.ID))
		return nil, errors.New(errno.JobTimeout, "job timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Call enqueues, awaits and decodes the result into out (which may be nil).
func (b *Bridge) Call(ctx context.Context, queue, name string, payload any, opts Options, out any) error {
	h, err := b.Enqueue(ctx, queue, name, payload, opts)
	if err != nil {
		return err
	}
	raw, err := b.Await(ctx, h, 0)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Close tears down every queue subscription.
func (b *Bridge) Close() error {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[string]*subscription)
	b.mu.Unlock()

	var firstErr error
	for _, s := range subs {
		<-s.ready
		if s.ps == nil {
			continue
		}
		if err := s.ps.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b *Bridge) watch(ctx context.Context, queue, id string) (<-chan event, func(), error) {
	s, err := b.subscription(ctx, queue)
	if err != nil {
		return nil, nil, err
	}
	w := s.add(id)
	return w.ch, func() { s.remove(id, w) }, nil
}

// subscription returns the queue's shared subscription, opening it on
// first use. Only callers for the same queue wait on the round trip.
func (b *Bridge) subscription(ctx context.Context, queue string) (*subscription, error) {
	b.mu.Lock()
	s, ok := b.subs[queue]
	if !ok {
		s = &subscription{ready: make(chan struct{}), waiters: make(map[string][]*waiter)}
		b.subs[queue] = s
	}
	b.mu.Unlock()

	if !ok {
		s.open(ctx, b.rdb, queue)
		if s.err != nil {
			b.mu.Lock()
			if b.subs[queue] == s {
				delete(b.subs, queue)
			}
			b.mu.Unlock()
		}
	}

	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

type waiter struct {
	ch chan event
}

type subscription struct {
	ready chan struct{}
	ps    *redis.PubSub
	err   error

	mu      sync.Mutex
	waiters map[string][]*waiter
}

func (s *subscription) open(ctx context.Context, rdb redis.UniversalClient, queue string) {
	defer close(s.ready)
	// The subscription outlives the request that opened it.
	ps := rdb.Subscribe(context.Background(), eventsChannel(queue))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		s.err = fmt.Errorf("subscribe %s events: %w", queue, err)
		return
	}
	s.ps = ps
	go s.loop(queue)
}

func (s *subscription) add(id string) *waiter {
	w := &waiter{ch: make(chan event, 1)}
	s.mu.Lock()
	s.waiters[id] = append(s.waiters[id], w)
	s.mu.Unlock()
	return w
}

func (s *subscription) remove(id string, w *waiter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.waiters[id]
	for i := range ws {
		if ws[i] == w {
			ws = append(ws[:i], ws[i+1:]...)
			break
		}
	}
	if len(ws) == 0 {
		delete(s.waiters, id)
		return
	}
	s.waiters[id] = ws
}

func (s *subscription) loop(queue string) {
	for msg := range s.ps.Channel() {
		var ev event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logx.Errorw("malformed job event", logx.Field("queue", queue), logx.Field("err", err.Error()))
			continue
		}
		s.mu.Lock()
		for _, w := range s.waiters[ev.JobID] {
			select {
			case w.ch <- ev:
			default:
			}
		}
		s.mu.Unlock()
	}
}

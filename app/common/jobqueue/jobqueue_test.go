package jobqueue

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"VenueHub/app/common/consts/errno"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/x/errors"
)

type metaKey struct{}

// memBroker stands in for the asynq server: it runs each enqueued task
// against the pool in process, retrying the way asynq does and recording
// the delays asynq would sleep for.
type memBroker struct {
	pool *Pool

	mu     sync.Mutex
	seen   map[string]bool
	delays []time.Duration
	wg     sync.WaitGroup
}

func (b *memBroker) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	var queue, id string
	maxRetry := 25
	for _, o := range opts {
		switch o.Type() {
		case asynq.QueueOpt:
			queue = o.Value().(string)
		case asynq.TaskIDOpt:
			id = o.Value().(string)
		case asynq.MaxRetryOpt:
			maxRetry = o.Value().(int)
		}
	}

	b.mu.Lock()
	if b.seen[id] {
		b.mu.Unlock()
		return nil, asynq.ErrTaskIDConflict
	}
	b.seen[id] = true
	b.mu.Unlock()

	q := b.pool.queues[queue]
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for retried := 0; retried <= maxRetry; retried++ {
			ctx := context.WithValue(context.Background(), metaKey{}, taskMeta{ID: id, Retried: retried, MaxRetry: maxRetry})
			err := b.pool.process(ctx, q, task)
			if err == nil || stderrors.Is(err, asynq.SkipRetry) || retried == maxRetry {
				return
			}
			b.mu.Lock()
			b.delays = append(b.delays, b.pool.retryDelay(retried, err, task))
			b.mu.Unlock()
		}
	}()
	return &asynq.TaskInfo{ID: id, Queue: queue}, nil
}

type harness struct {
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	pool   *Pool
	broker *memBroker
	bridge *Bridge
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	t.Cleanup(func() { _ = rdb.Close() })

	pool := NewPool(asynq.RedisClientOpt{Addr: mr.Addr()}, rdb)
	pool.meta = func(ctx context.Context) taskMeta {
		m, _ := ctx.Value(metaKey{}).(taskMeta)
		return m
	}
	broker := &memBroker{pool: pool, seen: make(map[string]bool)}
	bridge := NewBridge(broker, nil, rdb, 5*time.Second)
	t.Cleanup(func() {
		broker.wg.Wait()
		_ = bridge.Close()
	})
	return &harness{mr: mr, rdb: rdb, pool: pool, broker: broker, bridge: bridge}
}

func TestCallReturnsWorkerValue(t *testing.T) {
	h := newHarness(t)
	h.pool.Register("q", "echo", func(_ context.Context, payload json.RawMessage) Result {
		var in map[string]any
		if err := json.Unmarshal(payload, &in); err != nil {
			return Fatal(err)
		}
		in["seen"] = true
		return Ok(in)
	})

	payloads := []map[string]any{
		{"activityId": "abc"},
		{"n": float64(42), "nested": map[string]any{"k": "v"}},
		{},
	}
	for _, p := range payloads {
		var out map[string]any
		require.NoError(t, h.bridge.Call(context.Background(), "q", "echo", p, DefaultOptions(), &out))
		want := map[string]any{"seen": true}
		for k, v := range p {
			want[k] = v
		}
		assert.Equal(t, want, out)
	}
}

func TestRetryableFailsOnlyAfterFinalAttempt(t *testing.T) {
	h := newHarness(t)
	var calls atomic.Int32
	h.pool.Register("q", "flaky", func(_ context.Context, _ json.RawMessage) Result {
		calls.Add(1)
		// nothing may be reported while attempts remain
		assert.False(t, h.mr.Exists(resultKey("q", "job-retry")))
		return Retryable(stderrors.New("store unavailable"))
	})

	opts := Options{
		Attempts: 3,
		Backoff:  Backoff{Type: BackoffExponential, Delay: 3 * time.Second},
		JobID:    "job-retry",
	}
	err := h.bridge.Call(context.Background(), "q", "flaky", map[string]string{"k": "v"}, opts, nil)

	var cm *errors.CodeMsg
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, errno.JobFailed, cm.Code)
	assert.Equal(t, "store unavailable", cm.Msg)
	assert.Equal(t, int32(4), calls.Load())

	h.broker.wg.Wait()
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second, 12 * time.Second}, h.broker.delays)
}

func TestFatalCompletesWithoutRetry(t *testing.T) {
	h := newHarness(t)
	var calls atomic.Int32
	h.pool.Register("q", "lookup", func(_ context.Context, _ json.RawMessage) Result {
		calls.Add(1)
		return Classify(nil, errors.New(errno.ActivityNotFound, "activity not found"))
	})

	err := h.bridge.Call(context.Background(), "q", "lookup", map[string]string{"activityId": "x"}, DefaultOptions(), nil)

	var cm *errors.CodeMsg
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, errno.ActivityNotFound, cm.Code)
	assert.Equal(t, 404, errno.HTTPStatus(cm.Code))
	assert.Equal(t, int32(1), calls.Load())
	h.broker.wg.Wait()
	assert.Empty(t, h.broker.delays)
}

func TestDuplicateJobIDAttaches(t *testing.T) {
	h := newHarness(t)
	var calls atomic.Int32
	h.pool.Register("q", "once", func(_ context.Context, _ json.RawMessage) Result {
		return Ok(calls.Add(1))
	})

	opts := DefaultOptions()
	opts.JobID = "evt_1"
	var first int
	require.NoError(t, h.bridge.Call(context.Background(), "q", "once", nil, opts, &first))

	handle, err := h.bridge.Enqueue(context.Background(), "q", "once", nil, opts)
	require.NoError(t, err)
	assert.True(t, handle.Attached)

	raw, err := h.bridge.Await(context.Background(), handle, time.Second)
	require.NoError(t, err)
	assert.JSONEq(t, "1", string(raw))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, first)
}

func TestAwaitTimesOut(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	h.pool.Register("q", "stuck", func(_ context.Context, _ json.RawMessage) Result {
		<-release
		return Ok(nil)
	})
	defer close(release)

	handle, err := h.bridge.Enqueue(context.Background(), "q", "stuck", nil, DefaultOptions())
	require.NoError(t, err)
	_, err = h.bridge.Await(context.Background(), handle, 50*time.Millisecond)

	var cm *errors.CodeMsg
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, errno.JobTimeout, cm.Code)
	assert.Equal(t, 504, errno.HTTPStatus(cm.Code))
}

func TestPanicIsRetried(t *testing.T) {
	h := newHarness(t)
	var calls atomic.Int32
	h.pool.Register("q", "panicky", func(_ context.Context, _ json.RawMessage) Result {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return Ok("fine")
	})

	var out string
	require.NoError(t, h.bridge.Call(context.Background(), "q", "panicky", nil, DefaultOptions(), &out))
	assert.Equal(t, "fine", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestUnknownJobFailsFast(t *testing.T) {
	h := newHarness(t)
	h.pool.Register("q", "known", func(_ context.Context, _ json.RawMessage) Result { return Ok(nil) })

	err := h.bridge.Call(context.Background(), "q", "unknown", nil, DefaultOptions(), nil)
	var cm *errors.CodeMsg
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, errno.JobFailed, cm.Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindOk},
		{"coded", errors.New(errno.InvalidParam, "bad"), KindFatal},
		{"plain", stderrors.New("timeout"), KindRetryable},
		{"ctx", context.DeadlineExceeded, KindRetryable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify("v", tt.err).Kind())
		})
	}
}

func TestBackoffDelayFor(t *testing.T) {
	exp := Backoff{Type: BackoffExponential, Delay: time.Second}
	fixed := Backoff{Type: BackoffFixed, Delay: time.Second}
	for n, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second} {
		assert.Equal(t, want, exp.DelayFor(n))
		assert.Equal(t, time.Second, fixed.DelayFor(n))
	}
	assert.Zero(t, Backoff{}.DelayFor(3))
}

func TestOptionsNormalize(t *testing.T) {
	o := Options{}.normalize()
	assert.Equal(t, 1, o.Attempts)
	assert.Equal(t, BackoffExponential, o.Backoff.Type)
	assert.Equal(t, time.Hour, o.RemoveOnComplete.Age)
	assert.Equal(t, 24*time.Hour, o.RemoveOnFail.Age)
}

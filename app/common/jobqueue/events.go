package jobqueue

import (
	"context"
	"encoding/json"
	"time"

	"VenueHub/app/common/consts/errno"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/x/errors"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"

	defaultParkTTL = 10 * time.Minute
)

func eventsChannel(queue string) string { return "jobqueue:events:" + queue }

func resultKey(queue, id string) string { return "jobqueue:result:" + queue + ":" + id }

// event is published once per job when it reaches a terminal state.
type event struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
	Reply  *Reply `json:"reply,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (ev event) outcome() (json.RawMessage, error) {
	if ev.Status == statusFailed {
		return nil, errors.New(errno.JobFailed, ev.Reason)
	}
	if ev.Reply == nil {
		return nil, nil
	}
	if err := ev.Reply.Err(); err != nil {
		return nil, err
	}
	return ev.Reply.Data, nil
}

// reporter parks the terminal event under a TTL'd key and publishes it to
// the queue's events channel.
type reporter struct {
	rdb redis.UniversalClient
}

func (r reporter) report(ctx context.Context, queue string, ev event, ttl time.Duration) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, resultKey(queue, ev.JobID), b, ttl)
	pipe.Publish(ctx, eventsChannel(queue), b)
	_, err = pipe.Exec(ctx)
	return err
}

func parked(ctx context.Context, rdb redis.UniversalClient, queue, id string) (event, bool, error) {
	b, err := rdb.Get(ctx, resultKey(queue, id)).Bytes()
	if err == redis.Nil {
		return event{}, false, nil
	}
	if err != nil {
		return event{}, false, err
	}
	var ev event
	if err := json.Unmarshal(b, &ev); err != nil {
		return event{}, false, err
	}
	return ev, true, nil
}

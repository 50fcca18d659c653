package jobqueue

import (
	"encoding/json"
	"time"
)

// envelope wraps the user payload with the per-job policy the worker side
// needs: retry delay, result parking TTL and retention.
type envelope struct {
	Data            json.RawMessage `json:"data"`
	BackoffType     BackoffType     `json:"backoffType,omitempty"`
	BackoffDelayMs  int64           `json:"backoffDelayMs,omitempty"`
	KeepCompleted   int             `json:"keepCompleted,omitempty"`
	ResultTTLSec    int64           `json:"resultTtlSec,omitempty"`
	RemoveOnFailSec int64           `json:"removeOnFailSec,omitempty"`
	EnqueuedAt      int64           `json:"enqueuedAt"`
}

func newEnvelope(data json.RawMessage, o Options, now time.Time) envelope {
	return envelope{
		Data:            data,
		BackoffType:     o.Backoff.Type,
		BackoffDelayMs:  o.Backoff.Delay.Milliseconds(),
		KeepCompleted:   o.RemoveOnComplete.MaxCount,
		ResultTTLSec:    int64(o.RemoveOnComplete.Age / time.Second),
		RemoveOnFailSec: int64(o.RemoveOnFail.Age / time.Second),
		EnqueuedAt:      now.UnixMilli(),
	}
}

func decodeEnvelope(b []byte) (envelope, error) {
	var env envelope
	err := json.Unmarshal(b, &env)
	return env, err
}

func (e envelope) backoff() Backoff {
	return Backoff{Type: e.BackoffType, Delay: time.Duration(e.BackoffDelayMs) * time.Millisecond}
}

func (e envelope) resultTTL() time.Duration {
	return ttlOrDefault(e.ResultTTLSec)
}

func (e envelope) failTTL() time.Duration {
	return ttlOrDefault(e.RemoveOnFailSec)
}

func ttlOrDefault(sec int64) time.Duration {
	if sec <= 0 {
		return defaultParkTTL
	}
	return time.Duration(sec) * time.Second
}

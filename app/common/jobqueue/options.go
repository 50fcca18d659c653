package jobqueue

import "time"

type BackoffType string

const (
	BackoffExponential BackoffType = "exponential"
	BackoffFixed       BackoffType = "fixed"
)

// Backoff is the delay policy between attempts of one job.
type Backoff struct {
	Type  BackoffType
	Delay time.Duration
}

// DelayFor returns the wait before retry number n, counted from zero.
// Exponential backoff yields delay, 2*delay, 4*delay, ...
func (b Backoff) DelayFor(n int) time.Duration {
	if b.Delay <= 0 {
		return 0
	}
	if b.Type != BackoffExponential || n <= 0 {
		return b.Delay
	}
	if n > 30 {
		n = 30
	}
	return b.Delay * time.Duration(1<<uint(n))
}

type RemoveOnComplete struct {
	Age      time.Duration
	MaxCount int
}

type RemoveOnFail struct {
	Age time.Duration
}

type Options struct {
	// Attempts is how many times a failing job is retried.
	Attempts         int
	Backoff          Backoff
	RemoveOnComplete RemoveOnComplete
	RemoveOnFail     RemoveOnFail
	// JobID deduplicates: a second enqueue with the id of a live or
	// completed job attaches to it, while the id of an exhausted job starts
	// it over.
	JobID string
	// Timeout bounds one attempt of the handler.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Attempts:         3,
		Backoff:          Backoff{Type: BackoffExponential, Delay: 3 * time.Second},
		RemoveOnComplete: RemoveOnComplete{Age: time.Hour, MaxCount: 1000},
		RemoveOnFail:     RemoveOnFail{Age: 24 * time.Hour},
	}
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.Attempts < 1 {
		o.Attempts = 1
	}
	if o.Backoff.Type == "" {
		o.Backoff.Type = def.Backoff.Type
	}
	if o.RemoveOnComplete.Age <= 0 {
		o.RemoveOnComplete.Age = def.RemoveOnComplete.Age
	}
	if o.RemoveOnFail.Age <= 0 {
		o.RemoveOnFail.Age = def.RemoveOnFail.Age
	}
	return o
}

// QueueOptions configure the worker side of one queue.
type QueueOptions struct {
	Concurrency int
	// MaxCompleted caps retained completed jobs when no job asked for a
	// tighter RemoveOnComplete.MaxCount.
	MaxCompleted    int
	ShutdownTimeout time.Duration
	// PollInterval overrides how often the server looks for pending and
	// due retry jobs. Zero keeps the asynq defaults.
	PollInterval time.Duration
}

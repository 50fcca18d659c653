package jobqueue

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"
)

const janitorPageSize = 100

// TaskInspector is the subset of *asynq.Inspector the janitor uses.
type TaskInspector interface {
	ListArchivedTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	ListCompletedTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
}

// Janitor enforces RemoveOnFail ages and RemoveOnComplete counts, which
// asynq does not do on its own.
type Janitor struct {
	insp   TaskInspector
	queues map[string]QueueOptions
	now    func() time.Time
	cron   *cron.Cron
}

func NewJanitor(insp TaskInspector, queues map[string]QueueOptions) *Janitor {
	return &Janitor{insp: insp, queues: queues, now: time.Now}
}

// Start schedules Sweep on the given cron spec, e.g. "@every 1m".
func (j *Janitor) Start(spec string) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(spec, func() { j.Sweep(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Janitor) Sweep(ctx context.Context) {
	names := make([]string, 0, len(j.queues))
	for name := range j.queues {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		purged, err := j.purgeFailed(name)
		if err != nil {
			logx.WithContext(ctx).Errorw("purge failed jobs", logx.Field("queue", name), logx.Field("err", err.Error()))
		}
		trimmed, err := j.trimCompleted(name, j.queues[name].MaxCompleted)
		if err != nil {
			logx.WithContext(ctx).Errorw("trim completed jobs", logx.Field("queue", name), logx.Field("err", err.Error()))
		}
		if purged+trimmed > 0 {
			logx.WithContext(ctx).Infow("queue swept",
				logx.Field("queue", name), logx.Field("purged", purged), logx.Field("trimmed", trimmed))
		}
	}
}

func (j *Janitor) purgeFailed(queue string) (int, error) {
	tasks, err := listAll(queue, j.insp.ListArchivedTasks)
	if err != nil {
		return 0, err
	}
	now := j.now()
	n := 0
	for _, ti := range tasks {
		env, err := decodeEnvelope(ti.Payload)
		age := defaultParkTTL
		if err == nil {
			age = env.failTTL()
		}
		if ti.LastFailedAt.IsZero() || now.Sub(ti.LastFailedAt) < age {
			continue
		}
		if err := j.insp.DeleteTask(queue, ti.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// trimCompleted keeps the newest completed jobs. The cap is the tightest
// RemoveOnComplete.MaxCount among retained jobs, else the queue default.
func (j *Janitor) trimCompleted(queue string, queueMax int) (int, error) {
	tasks, err := listAll(queue, j.insp.ListCompletedTasks)
	if err != nil {
		return 0, err
	}
	limit := queueMax
	for _, ti := range tasks {
		env, err := decodeEnvelope(ti.Payload)
		if err != nil || env.KeepCompleted <= 0 {
			continue
		}
		if limit <= 0 || env.KeepCompleted < limit {
			limit = env.KeepCompleted
		}
	}
	if limit <= 0 || len(tasks) <= limit {
		return 0, nil
	}

	sort.Slice(tasks, func(a, b int) bool { return tasks[a].CompletedAt.After(tasks[b].CompletedAt) })
	n := 0
	for _, ti := range tasks[limit:] {
		if err := j.insp.DeleteTask(queue, ti.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func listAll(queue string, list func(string, ...asynq.ListOption) ([]*asynq.TaskInfo, error)) ([]*asynq.TaskInfo, error) {
	var out []*asynq.TaskInfo
	for page := 1; ; page++ {
		batch, err := list(queue, asynq.PageSize(janitorPageSize), asynq.Page(page))
		if stderrors.Is(err, asynq.ErrQueueNotFound) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, batch...)
		if len(batch) < janitorPageSize {
			return out, nil
		}
	}
}

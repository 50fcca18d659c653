package logic

import (
	"context"
	"encoding/json"
	"testing"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/x/errors"
)

type lookupJobs struct {
	queue, name string
	payload     any
	reply       string
	err         error
}

func (l *lookupJobs) Call(_ context.Context, queue, name string, payload any, _ jobqueue.Options, out any) error {
	l.queue, l.name, l.payload = queue, name, payload
	if l.err != nil {
		return l.err
	}
	return json.Unmarshal([]byte(l.reply), out)
}

func TestGetActivityReturnsWorkerReply(t *testing.T) {
	jobs := &lookupJobs{reply: `{"id":"a1","title":"Quiz night","siblings":[]}`}
	resp, err := NewGetActivityLogic(context.Background(), &svc.ServiceContext{Jobs: jobs}).GetActivity(&types.IdPath{Id: "a1"})
	require.NoError(t, err)

	assert.JSONEq(t, jobs.reply, string(resp))
	assert.Equal(t, biz.QueueActivities, jobs.queue)
	assert.Equal(t, tasks.TaskActivityGetByID, jobs.name)
	assert.Equal(t, tasks.ActivityLookupPayload{ActivityID: "a1"}, jobs.payload)
}

func TestGetActivityPassesDomainError(t *testing.T) {
	jobs := &lookupJobs{err: errors.New(errno.ActivityNotFound, "activity not found")}
	_, err := NewGetActivityLogic(context.Background(), &svc.ServiceContext{Jobs: jobs}).GetActivity(&types.IdPath{Id: "nope"})
	require.Error(t, err)
	assert.Equal(t, "activity not found", err.(*errors.CodeMsg).Msg)
}

func TestToActivityReq(t *testing.T) {
	in, err := toActivityReq(&types.ActivityRequest{Title: "Salsa", StartTime: "2026-05-01T18:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "Salsa", in.Title)
	assert.Equal(t, 2026, in.StartTime.Year())
	assert.True(t, in.EndTime.IsZero())

	_, err = toActivityReq(&types.ActivityRequest{Title: "Salsa", EndTime: "soon"})
	assert.Error(t, err)
}

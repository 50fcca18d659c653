// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"encoding/json"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/tasks"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetActivityLogic {
	return &GetActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetActivityLogic) GetActivity(req *types.IdPath) (resp json.RawMessage, err error) {
	err = l.svcCtx.Jobs.Call(l.ctx, biz.QueueActivities, tasks.TaskActivityGetByID,
		tasks.ActivityLookupPayload{ActivityID: req.Id}, tasks.LookupOptions(), &resp)
	if err != nil {
		l.Logger.Infow("activity lookup failed", logx.Field("activityId", req.Id), logx.Field("err", err.Error()))
		return nil, err
	}
	return resp, nil
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	activitydal "VenueHub/app/dal/activity"
	activitysvc "VenueHub/app/services/activity"

	"github.com/zeromicro/go-zero/core/logx"
)

type AddScheduleLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAddScheduleLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AddScheduleLogic {
	return &AddScheduleLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AddScheduleLogic) AddSchedule(req *types.ScheduleRequest) (resp *activitydal.Schedule, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	startsAt, err := helper.ParseTime("startsAt", req.StartsAt, true)
	if err != nil {
		return nil, err
	}
	endsAt, err := helper.ParseTime("endsAt", req.EndsAt, false)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Activities.AddSchedule(l.ctx, actor, req.Id, activitysvc.ScheduleReq{
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		Capacity:   req.Capacity,
		PriceCents: req.PriceCents,
	})
}

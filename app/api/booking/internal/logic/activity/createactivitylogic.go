// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	activitydal "VenueHub/app/dal/activity"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateActivityLogic {
	return &CreateActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateActivityLogic) CreateActivity(req *types.ActivityRequest) (resp *activitydal.Activity, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	in, err := toActivityReq(req)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Activities.Create(l.ctx, actor, req.VenueId, in)
}

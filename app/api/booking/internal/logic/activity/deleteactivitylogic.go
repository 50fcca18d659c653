// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DeleteActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDeleteActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeleteActivityLogic {
	return &DeleteActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DeleteActivityLogic) DeleteActivity(req *types.IdPath) (resp *types.StatusResponse, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	if err = l.svcCtx.Activities.Delete(l.ctx, actor, req.Id); err != nil {
		return nil, err
	}
	return &types.StatusResponse{Success: true}, nil
}

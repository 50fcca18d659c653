// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListActivitiesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListActivitiesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListActivitiesLogic {
	return &ListActivitiesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListActivitiesLogic) ListActivities(req *types.ListActivitiesRequest) (resp *types.ActivityListResponse, err error) {
	activities, total, err := l.svcCtx.Activities.List(l.ctx, req.Id, req.Page, req.Size)
	if err != nil {
		return nil, err
	}
	return &types.ActivityListResponse{Activities: activities, Total: total}, nil
}

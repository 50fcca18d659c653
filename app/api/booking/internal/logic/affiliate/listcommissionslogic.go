// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/util"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListCommissionsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListCommissionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListCommissionsLogic {
	return &ListCommissionsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListCommissionsLogic) ListCommissions(req *types.PageQuery) (resp *types.CommissionListResponse, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	list, total, err := l.svcCtx.Affiliates.ListCommissions(l.ctx, uid, req.Page, req.Size)
	if err != nil {
		return nil, err
	}
	return &types.CommissionListResponse{Commissions: list, Total: total}, nil
}

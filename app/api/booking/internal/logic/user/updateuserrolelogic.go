// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type UpdateUserRoleLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUpdateUserRoleLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateUserRoleLogic {
	return &UpdateUserRoleLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdateUserRoleLogic) UpdateUserRole(req *types.UpdateRoleRequest) (resp *types.StatusResponse, err error) {
	if err = l.svcCtx.Accounts.UpdateRole(l.ctx, req.Id, req.Role); err != nil {
		return nil, err
	}
	l.Logger.Infow("user role changed", logx.Field("userId", req.Id), logx.Field("role", req.Role))
	return &types.StatusResponse{Success: true}, nil
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type RequestPasswordSetupLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRequestPasswordSetupLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RequestPasswordSetupLogic {
	return &RequestPasswordSetupLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RequestPasswordSetupLogic) RequestPasswordSetup(req *types.PasswordSetupRequest) (resp *types.StatusResponse, err error) {
	if err = l.svcCtx.Accounts.RequestPasswordSetup(l.ctx, req.Email); err != nil {
		return nil, err
	}
	return &types.StatusResponse{Success: true}, nil
}

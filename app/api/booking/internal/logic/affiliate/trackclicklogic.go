// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type TrackClickLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTrackClickLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TrackClickLogic {
	return &TrackClickLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TrackClickLogic) TrackClick(req *types.CodePath, visitor string) (resp *types.TrackClickResponse, err error) {
	counted, err := l.svcCtx.Affiliates.TrackClick(l.ctx, req.Code, visitor)
	if err != nil {
		return nil, err
	}
	return &types.TrackClickResponse{Counted: counted}, nil
}

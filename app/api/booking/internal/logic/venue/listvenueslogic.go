// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListVenuesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListVenuesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListVenuesLogic {
	return &ListVenuesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListVenuesLogic) ListVenues(req *types.ListVenuesRequest) (resp *types.VenueListResponse, err error) {
	venues, total, err := l.svcCtx.Venues.List(l.ctx, req.City, req.Page, req.Size)
	if err != nil {
		l.Logger.Errorw("list venues failed", logx.Field("err", err.Error()))
		return nil, err
	}
	return &types.VenueListResponse{Venues: venues, Total: total}, nil
}

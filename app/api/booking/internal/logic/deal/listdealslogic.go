// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListDealsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListDealsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListDealsLogic {
	return &ListDealsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListDealsLogic) ListDeals(req *types.PageQuery) (resp *types.DealListResponse, err error) {
	deals, total, err := l.svcCtx.Deals.List(l.ctx, req.Page, req.Size)
	if err != nil {
		return nil, err
	}
	return &types.DealListResponse{Deals: deals, Total: total}, nil
}

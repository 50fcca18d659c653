// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	venuedal "VenueHub/app/dal/venue"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetVenueLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetVenueLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetVenueLogic {
	return &GetVenueLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetVenueLogic) GetVenue(req *types.IdPath) (resp *venuedal.Venue, err error) {
	return l.svcCtx.Venues.Get(l.ctx, req.Id)
}

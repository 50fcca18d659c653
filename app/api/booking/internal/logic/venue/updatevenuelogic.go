// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	venuedal "VenueHub/app/dal/venue"

	"github.com/zeromicro/go-zero/core/logx"
)

type UpdateVenueLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUpdateVenueLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateVenueLogic {
	return &UpdateVenueLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdateVenueLogic) UpdateVenue(req *types.VenueRequest) (resp *venuedal.Venue, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Venues.Update(l.ctx, actor, req.Id, toVenueReq(req))
}

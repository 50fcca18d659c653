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

type CreateVenueLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateVenueLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateVenueLogic {
	return &CreateVenueLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateVenueLogic) CreateVenue(req *types.VenueRequest) (resp *venuedal.Venue, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Venues.Create(l.ctx, actor, toVenueReq(req))
}

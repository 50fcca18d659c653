// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type VenueReservationsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewVenueReservationsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *VenueReservationsLogic {
	return &VenueReservationsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *VenueReservationsLogic) VenueReservations(req *types.VenueReservationsRequest) (resp *types.ReservationListResponse, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	from, err := helper.ParseTime("from", req.From, false)
	if err != nil {
		return nil, err
	}
	to, err := helper.ParseTime("to", req.To, false)
	if err != nil {
		return nil, err
	}
	list, err := l.svcCtx.Tables.ListReservations(l.ctx, actor, req.Id, from, to)
	if err != nil {
		return nil, err
	}
	return &types.ReservationListResponse{Reservations: list}, nil
}

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

type MyReservationsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMyReservationsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MyReservationsLogic {
	return &MyReservationsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MyReservationsLogic) MyReservations() (resp *types.ReservationListResponse, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	list, err := l.svcCtx.Tables.MyReservations(l.ctx, uid)
	if err != nil {
		return nil, err
	}
	return &types.ReservationListResponse{Reservations: list}, nil
}

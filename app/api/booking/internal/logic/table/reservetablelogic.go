// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/util"
	tabledal "VenueHub/app/dal/table"

	"github.com/zeromicro/go-zero/core/logx"
)

type ReserveTableLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReserveTableLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReserveTableLogic {
	return &ReserveTableLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ReserveTableLogic) ReserveTable(req *types.ReserveRequest) (resp *tabledal.Reservation, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	slot, err := helper.ParseTime("slot", req.Slot, true)
	if err != nil {
		return nil, err
	}
	resp, err = l.svcCtx.Tables.Reserve(l.ctx, uid, req.Id, slot, req.PartySize)
	if err != nil {
		l.Logger.Infow("reservation rejected", logx.Field("tableId", req.Id), logx.Field("err", err.Error()))
		return nil, err
	}
	return resp, nil
}

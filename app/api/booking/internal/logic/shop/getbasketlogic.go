// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/common/util"
	shopdal "VenueHub/app/dal/shop"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetBasketLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetBasketLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetBasketLogic {
	return &GetBasketLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetBasketLogic) GetBasket() (resp *shopdal.Basket, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Shop.GetBasket(l.ctx, uid)
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/util"
	shopdal "VenueHub/app/dal/shop"

	"github.com/zeromicro/go-zero/core/logx"
)

type AddBasketItemLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAddBasketItemLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AddBasketItemLogic {
	return &AddBasketItemLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AddBasketItemLogic) AddBasketItem(req *types.AddBasketItemRequest) (resp *shopdal.Basket, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Shop.AddItem(l.ctx, uid, req.ProductId, req.Quantity)
}

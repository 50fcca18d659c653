// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	dealdal "VenueHub/app/dal/deal"
	dealsvc "VenueHub/app/services/deal"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateDealLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateDealLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateDealLogic {
	return &CreateDealLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateDealLogic) CreateDeal(req *types.CreateDealRequest) (resp *dealdal.DiscountCode, err error) {
	startsAt, err := helper.ParseTime("startsAt", req.StartsAt, false)
	if err != nil {
		return nil, err
	}
	endsAt, err := helper.ParseTime("endsAt", req.EndsAt, false)
	if err != nil {
		return nil, err
	}
	resp, err = l.svcCtx.Deals.CreateCode(l.ctx, dealsvc.CreateCodeReq{
		Code:        req.Code,
		VenueID:     req.VenueId,
		Kind:        req.Kind,
		AmountOff:   req.AmountOff,
		PercentOff:  req.PercentOff,
		MaxDiscount: req.MaxDiscount,
		MinSpend:    req.MinSpend,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		UsageLimit:  req.UsageLimit,
	})
	if err != nil {
		return nil, err
	}
	l.Logger.Infow("discount code created", logx.Field("code", resp.Code))
	return resp, nil
}

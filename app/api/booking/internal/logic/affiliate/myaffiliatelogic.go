// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/common/util"
	affiliatedal "VenueHub/app/dal/affiliate"

	"github.com/zeromicro/go-zero/core/logx"
)

type MyAffiliateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMyAffiliateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MyAffiliateLogic {
	return &MyAffiliateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MyAffiliateLogic) MyAffiliate() (resp *affiliatedal.Affiliate, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Affiliates.Me(l.ctx, uid)
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/dal/mongox"
	dealsvc "VenueHub/app/services/deal"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ValidateDealLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewValidateDealLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ValidateDealLogic {
	return &ValidateDealLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ValidateDealLogic) ValidateDeal(req *types.ValidateDealRequest) (resp *dealsvc.Quote, err error) {
	venueID := bson.NilObjectID
	if req.VenueId != "" {
		if venueID, err = mongox.ObjectID(req.VenueId); err != nil {
			return nil, errors.New(errno.InvalidParam, "invalid venueId")
		}
	}
	return l.svcCtx.Deals.Validate(l.ctx, req.Code, req.Amount, venueID)
}

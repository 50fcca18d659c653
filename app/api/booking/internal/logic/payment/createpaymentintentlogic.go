// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/tasks"
	"VenueHub/app/common/util"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

type CreatePaymentIntentLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreatePaymentIntentLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreatePaymentIntentLogic {
	return &CreatePaymentIntentLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreatePaymentIntentLogic) CreatePaymentIntent(req *types.PaymentIntentRequest) (resp *types.PaymentIntentResponse, err error) {
	uid, err := util.UserIdFromCtx(l.ctx)
	if err != nil {
		return nil, err
	}
	requestID := req.IdempotencyKey
	if requestID == "" {
		requestID = uuid.NewString()
	} else {
		requestID = uid + ":" + requestID
	}
	payload := tasks.CheckoutPayload{
		RequestID:     requestID,
		Kind:          req.Kind,
		ActivityID:    req.ActivityId,
		ScheduleID:    req.ScheduleId,
		Quantity:      req.Quantity,
		BasketID:      req.BasketId,
		DiscountCode:  req.DiscountCode,
		AffiliateCode: req.AffiliateCode,
		UserID:        uid,
		Email:         util.EmailFromCtx(l.ctx),
	}

	resp = &types.PaymentIntentResponse{}
	err = l.svcCtx.Jobs.Call(l.ctx, biz.QueuePayments, tasks.TaskPaymentCreateIntent, payload, tasks.PaymentOptions(requestID), resp)
	if err != nil {
		l.Logger.Infow("create payment intent failed", logx.Field("requestId", requestID), logx.Field("err", err.Error()))
		return nil, err
	}
	return resp, nil
}

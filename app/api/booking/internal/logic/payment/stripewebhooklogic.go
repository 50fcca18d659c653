// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"encoding/json"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/tasks"
	"VenueHub/app/services/payment"

	"github.com/zeromicro/go-zero/core/logx"
)

type StripeWebhookLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStripeWebhookLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StripeWebhookLogic {
	return &StripeWebhookLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StripeWebhookLogic) StripeWebhook(payload []byte, signature string) (resp *types.WebhookResponse, err error) {
	ev, err := payment.VerifyWebhook(payload, signature, l.svcCtx.Config.Stripe.WebhookSecret)
	if err != nil {
		l.Logger.Infow("webhook signature rejected", logx.Field("err", err.Error()))
		return nil, err
	}

	// The event id is the job id, so a redelivery attaches to the job of
	// the first delivery instead of running again.
	var ack payment.Ack
	err = l.svcCtx.Jobs.Call(l.ctx, biz.QueuePayments, tasks.TaskPaymentWebhook,
		tasks.WebhookPayload{Event: json.RawMessage(payload)}, tasks.PaymentOptions("stripe:"+ev.ID), &ack)
	if err != nil {
		l.Logger.Errorw("webhook processing failed",
			logx.Field("event", ev.ID), logx.Field("type", ev.Type), logx.Field("err", err.Error()))
		return nil, err
	}
	return &types.WebhookResponse{Received: true}, nil
}

package handler

import (
	"io"
	"net/http"

	logic "VenueHub/app/api/booking/internal/logic/payment"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/common/consts/errno"

	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/x/errors"
)

// StripeWebhookHandler needs the body byte for byte; it must not go
// through httpx.Parse.
func StripeWebhookHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.InvalidParam, "unreadable body"))
			return
		}

		l := logic.NewStripeWebhookLogic(r.Context(), svcCtx)
		resp, err := l.StripeWebhook(payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	logic "VenueHub/app/api/booking/internal/logic/shop"
	"VenueHub/app/api/booking/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func GetBasketHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewGetBasketLogic(r.Context(), svcCtx)
		resp, err := l.GetBasket()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

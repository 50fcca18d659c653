// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	logic "VenueHub/app/api/booking/internal/logic/activity"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/errno"

	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/x/errors"
)

func AddScheduleHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ScheduleRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.InvalidParam, err.Error()))
			return
		}

		l := logic.NewAddScheduleLogic(r.Context(), svcCtx)
		resp, err := l.AddSchedule(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

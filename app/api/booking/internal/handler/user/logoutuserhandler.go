package handler

import (
	"net/http"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/util"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func LogoutUserHandler(_ *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.ClearTokenCookies(w)
		httpx.OkJsonCtx(r.Context(), w, &types.StatusResponse{Success: true})
	}
}

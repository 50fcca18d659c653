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

const maxMultipartMemory = 4 << 20

func UploadMediaHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.IdPath
		if err := httpx.ParsePath(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.InvalidParam, err.Error()))
			return
		}
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.InvalidParam, "expected a multipart upload"))
			return
		}
		file, fh, err := r.FormFile("file")
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.InvalidParam, "missing file field"))
			return
		}
		_ = file.Close()

		l := logic.NewUploadMediaLogic(r.Context(), svcCtx)
		resp, err := l.UploadMedia(req.Id, fh)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

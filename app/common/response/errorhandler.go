package response

import (
	"context"
	stderrors "errors"
	"net/http"

	"VenueHub/app/common/consts/errno"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

// Body is the JSON envelope of every failed request.
type Body struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

var internalBody = Body{Code: errno.InternalError, Msg: "internal error"}

// ErrorHandler renders coded errors, wrapped or not, with their mapped
// status and hides everything else behind a 500. Install with
// httpx.SetErrorHandlerCtx.
func ErrorHandler(ctx context.Context, err error) (int, any) {
	var cm *errors.CodeMsg
	if stderrors.As(err, &cm) {
		return errno.HTTPStatus(cm.Code), Body{Code: cm.Code, Msg: cm.Msg}
	}
	logx.WithContext(ctx).Errorw("unhandled error", logx.Field("err", err.Error()))
	return http.StatusInternalServerError, internalBody
}

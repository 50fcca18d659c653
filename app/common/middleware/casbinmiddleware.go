package middleware

import (
	"net/http"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/util"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/x/errors"
)

// Enforcer is the part of casbin the middleware needs.
type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type CasbinMiddleware struct {
	Enforcer Enforcer
}

func NewCasbinMiddleware(e Enforcer) *CasbinMiddleware {
	return &CasbinMiddleware{Enforcer: e}
}

// Handle must run after AuthMiddleware; the subject is the caller's role.
func (m *CasbinMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := util.UserIdFromCtx(r.Context()); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		sub := util.RoleFromCtx(r.Context())
		ok, err := m.Enforcer.Enforce(sub, r.URL.Path, r.Method)
		if err != nil {
			logx.WithContext(r.Context()).Errorw("casbin enforce failed",
				logx.Field("sub", sub), logx.Field("path", r.URL.Path), logx.Field("err", err.Error()))
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.CasbinError, "casbin error"))
			return
		}
		if !ok {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.NoPermission, "no permission"))
			return
		}
		next(w, r)
	}
}

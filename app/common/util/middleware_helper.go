package util

import (
	"context"
	"net/http"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"

	"github.com/zeromicro/x/errors"
)

func UserIdFromCtx(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New(errno.TokenEmpty, "missing context")
	}

	if val, ok := ctx.Value(biz.USER_KEY).(string); ok && val != "" {
		return val, nil
	}

	return "", errors.New(errno.TokenEmpty, "unauthorized")
}

func RoleFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	role, _ := ctx.Value(biz.ROLE_KEY).(string)
	return role
}

func EmailFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	email, _ := ctx.Value(biz.EMAIL_KEY).(string)
	return email
}

func InjectIdentity2Ctx(r *http.Request, userId, role, email string) {
	ctx := context.WithValue(r.Context(), biz.USER_KEY, userId)
	ctx = context.WithValue(ctx, biz.ROLE_KEY, role)
	ctx = context.WithValue(ctx, biz.EMAIL_KEY, email)
	*r = *r.WithContext(ctx)
}

// ClientKey identifies an anonymous visitor for de-duplication.
func ClientKey(r *http.Request) string {
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		return v
	}
	return r.RemoteAddr
}

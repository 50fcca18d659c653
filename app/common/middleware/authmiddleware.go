package middleware

import (
	stderrors "errors"
	"net/http"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/token"
	"VenueHub/app/common/util"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/x/errors"
)

type AuthMiddleware struct {
	Conf token.Conf
}

func NewAuthMiddleware(c token.Conf) *AuthMiddleware {
	return &AuthMiddleware{Conf: c}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := readToken(r, biz.ACCESSTOKEN)
		if accessToken == "" {
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.TokenEmpty, "token is null"))
			return
		}

		claims, err := token.ParseAccess(m.Conf, accessToken)
		switch {
		case err == nil:
		case stderrors.Is(err, token.ErrExpired):
			claims, err = m.refresh(w, r)
			if err != nil {
				httpx.ErrorCtx(r.Context(), w, err)
				return
			}
		default:
			httpx.ErrorCtx(r.Context(), w, errors.New(errno.InvalidToken, "invalid token"))
			return
		}

		util.InjectIdentity2Ctx(r, claims.UserID, claims.Role, claims.Email)
		next(w, r)
	}
}

// refresh swaps an expired access token for a new pair when the refresh
// token is still valid.
func (m *AuthMiddleware) refresh(w http.ResponseWriter, r *http.Request) (*token.Claims, error) {
	refreshToken := readToken(r, biz.REFRESHTOKEN)
	if refreshToken == "" {
		return nil, errors.New(errno.AccessTokenExpired, "access token expired")
	}
	claims, err := token.ParseRefresh(m.Conf, refreshToken)
	if err != nil {
		return nil, errors.New(errno.RefreshTokenExpired, "token refresh failed")
	}
	pair, err := token.BuildPair(m.Conf, claims.UserID, claims.Email, claims.Role)
	if err != nil {
		logx.WithContext(r.Context()).Errorw("rebuild token pair failed", logx.Field("err", err.Error()))
		return nil, errors.New(errno.InternalError, "token refresh failed")
	}
	util.SetTokenCookies(w, pair.AccessToken, pair.ExpiresIn, pair.RefreshToken)
	return claims, nil
}

func readToken(r *http.Request, name string) string {
	if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if v := r.Header.Get(name); v != "" {
		return v
	}
	if name == biz.ACCESSTOKEN {
		const prefix = "Bearer "
		if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
			return h[len(prefix):]
		}
	}
	return ""
}

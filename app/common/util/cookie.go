package util

import (
	"net/http"
	"time"

	"VenueHub/app/common/consts/biz"
)

func SetTokenCookies(w http.ResponseWriter, accessToken string, accessExpiresIn int64, refreshToken string) {
	if accessToken != "" {
		ttl := biz.TokenExpire
		if accessExpiresIn > 0 {
			ttl = time.Duration(accessExpiresIn) * time.Second
		}
		setCookie(w, biz.ACCESSTOKEN, accessToken, ttl)
	}
	if refreshToken != "" {
		setCookie(w, biz.REFRESHTOKEN, refreshToken, biz.TokenRenewalExpire)
	}
}

func ClearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{biz.ACCESSTOKEN, biz.REFRESHTOKEN} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}

func setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

package helper

import (
	"context"
	"strings"
	"time"

	"VenueHub/app/api/booking/internal/types"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/util"
	"VenueHub/app/services/account"
	venuesvc "VenueHub/app/services/venue"

	"github.com/zeromicro/x/errors"
)

// Actor builds the caller identity the services authorise against.
func Actor(ctx context.Context) (venuesvc.Actor, error) {
	uid, err := util.UserIdFromCtx(ctx)
	if err != nil {
		return venuesvc.Actor{}, err
	}
	return venuesvc.Actor{UserID: uid, Role: util.RoleFromCtx(ctx)}, nil
}

// ParseTime reads an RFC 3339 timestamp; an empty optional value yields
// the zero time.
func ParseTime(field, v string, required bool) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if required {
			return time.Time{}, errors.New(errno.InvalidParam, field+" is required")
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.New(errno.InvalidParam, field+" must be an RFC 3339 timestamp")
	}
	return t, nil
}

func ToSession(s *account.Session) *types.SessionResponse {
	resp := &types.SessionResponse{User: s.User}
	if s.Token != nil {
		resp.AccessToken = s.Token.AccessToken
		resp.RefreshToken = s.Token.RefreshToken
		resp.ExpiresIn = s.Token.ExpiresIn
	}
	return resp
}

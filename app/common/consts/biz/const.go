package biz

import "time"

type CtxKey string

const (
	USER_KEY  CtxKey = "user_id"
	ROLE_KEY  CtxKey = "role"
	EMAIL_KEY CtxKey = "email"

	TokenExpire        = time.Hour * 2
	TokenRenewalExpire = time.Hour * 24 * 7

	REFRESHTOKEN = "refresh_token"
	ACCESSTOKEN  = "access_token"
)

const (
	RoleUser       = "user"
	RoleVenueOwner = "venue_owner"
	RoleAdmin      = "admin"
)

const (
	PasswordSetupTTL    = time.Hour
	PasswordSetupPrefix = "pwdsetup:"
	ClickDedupeTTL      = time.Hour * 24
	ClickDedupePrefix   = "affclick:"
	RoomChannelPrefix   = "room:"
)

const (
	QueueActivities    = "activities"
	QueuePayments      = "payments"
	QueueNotifications = "notifications"
)

package errno

import "net/http"

const (
	StatusOK           = 10000
	StatusTokenFreshed = 10001
)

const (
	TokenEmpty = 40000 + iota
	AccessTokenExpired
	RefreshTokenExpired
	InvalidToken
	NoPermission
	InvalidSignature
)

const (
	InternalError = 50000 + iota
	InvalidParam
	UserAlreadyExists
	UserNotFound
	InvalidCredentials
	UserNotActivated
	SetupTokenInvalid
	VenueNotFound
	VenueSlugTaken
	ActivityNotFound
	ScheduleNotFound
	TableNotFound
	ReservationConflict
	ReservationNotFound
	ProductNotFound
	ProductUnavailable
	BasketNotFound
	BasketEmpty
	BasketForbidden
	OrderNotFound
	DealNotFound
	DealExpired
	DealExhausted
	DealMinSpend
	DealCodeTaken
	AffiliateExists
	AffiliateNotFound
	Forbidden
	CasbinError
	PaymentRejected
)

const (
	JobFailed = 60000 + iota
	JobTimeout
)

var httpStatus = map[int]int{
	TokenEmpty:          http.StatusUnauthorized,
	AccessTokenExpired:  http.StatusUnauthorized,
	RefreshTokenExpired: http.StatusUnauthorized,
	InvalidToken:        http.StatusUnauthorized,
	NoPermission:        http.StatusForbidden,
	InvalidSignature:    http.StatusBadRequest,

	InternalError:       http.StatusInternalServerError,
	InvalidParam:        http.StatusBadRequest,
	UserAlreadyExists:   http.StatusConflict,
	UserNotFound:        http.StatusNotFound,
	InvalidCredentials:  http.StatusUnauthorized,
	UserNotActivated:    http.StatusForbidden,
	SetupTokenInvalid:   http.StatusBadRequest,
	VenueNotFound:       http.StatusNotFound,
	VenueSlugTaken:      http.StatusConflict,
	ActivityNotFound:    http.StatusNotFound,
	ScheduleNotFound:    http.StatusNotFound,
	TableNotFound:       http.StatusNotFound,
	ReservationConflict: http.StatusConflict,
	ReservationNotFound: http.StatusNotFound,
	ProductNotFound:     http.StatusNotFound,
	ProductUnavailable:  http.StatusConflict,
	BasketNotFound:      http.StatusNotFound,
	BasketEmpty:         http.StatusBadRequest,
	BasketForbidden:     http.StatusForbidden,
	OrderNotFound:       http.StatusNotFound,
	DealNotFound:        http.StatusNotFound,
	DealExpired:         http.StatusBadRequest,
	DealExhausted:       http.StatusConflict,
	DealMinSpend:        http.StatusBadRequest,
	DealCodeTaken:       http.StatusConflict,
	AffiliateExists:     http.StatusConflict,
	AffiliateNotFound:   http.StatusNotFound,
	Forbidden:           http.StatusForbidden,
	CasbinError:         http.StatusInternalServerError,
	PaymentRejected:     http.StatusBadRequest,

	JobFailed:  http.StatusInternalServerError,
	JobTimeout: http.StatusGatewayTimeout,
}

// HTTPStatus maps a business code to the status code it is served with.
func HTTPStatus(code int) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	switch {
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package affiliate

import "VenueHub/app/dal/mongox"

var (
	ErrNotFound        = mongox.ErrNotFound
	ErrInvalidObjectId = mongox.ErrInvalidObjectId
)

const (
	Collection           = "affiliates"
	CommissionCollection = "commissions"
)

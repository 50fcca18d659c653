package order

import "VenueHub/app/dal/mongox"

var (
	ErrNotFound        = mongox.ErrNotFound
	ErrInvalidObjectId = mongox.ErrInvalidObjectId
)

const Collection = "orders"

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
)

const (
	KindActivity = "activity"
	KindBasket   = "basket"
)

const (
	ModeTest = "test"
	ModeLive = "live"
)

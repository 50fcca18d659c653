package deal

import "VenueHub/app/dal/mongox"

var (
	ErrNotFound        = mongox.ErrNotFound
	ErrInvalidObjectId = mongox.ErrInvalidObjectId
)

const Collection = "discount_codes"

const (
	KindCash    = "cash"
	KindPercent = "percent"
)

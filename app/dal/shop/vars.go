package shop

import "VenueHub/app/dal/mongox"

var (
	ErrNotFound        = mongox.ErrNotFound
	ErrInvalidObjectId = mongox.ErrInvalidObjectId
)

const (
	ProductCollection = "products"
	BasketCollection  = "baskets"
)

const (
	BasketOpen    = "open"
	BasketOrdered = "ordered"
)

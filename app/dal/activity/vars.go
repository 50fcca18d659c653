package activity

import "VenueHub/app/dal/mongox"

var (
	ErrNotFound        = mongox.ErrNotFound
	ErrInvalidObjectId = mongox.ErrInvalidObjectId
)

const Collection = "activities"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCancelled = "cancelled"
)

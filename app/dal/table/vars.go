package table

import (
	"errors"

	"VenueHub/app/dal/mongox"
)

var (
	ErrNotFound        = mongox.ErrNotFound
	ErrInvalidObjectId = mongox.ErrInvalidObjectId
	ErrSlotTaken       = errors.New("table slot already booked")
)

const (
	Collection            = "tables"
	ReservationCollection = "reservations"
)

const (
	ReservationBooked    = "booked"
	ReservationCancelled = "cancelled"
)

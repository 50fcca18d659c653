package table

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/notify"
	"VenueHub/app/dal/mongox"
	"VenueHub/app/dal/table"
	venuesvc "VenueHub/app/services/venue"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

// SlotSize is the booking granularity; requested times are floored to it.
const SlotSize = 30 * time.Minute

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

type Service struct {
	tables       table.TableModel
	reservations table.ReservationModel
	venues       *venuesvc.Service
	rooms        notify.Publisher
	now          func() time.Time
}

func NewService(tables table.TableModel, reservations table.ReservationModel, venues *venuesvc.Service, rooms notify.Publisher) *Service {
	return &Service{tables: tables, reservations: reservations, venues: venues, rooms: rooms, now: time.Now}
}

func (s *Service) CreateTable(ctx context.Context, actor venuesvc.Actor, venueID, name string, seats int64) (*table.Table, error) {
	v, err := s.venues.Manageable(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || seats <= 0 {
		return nil, errors.New(errno.InvalidParam, "table needs a name and at least one seat")
	}
	t := &table.Table{VenueID: v.ID, Name: name, Seats: seats}
	if err := s.tables.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTables(ctx context.Context, venueID string) ([]*table.Table, error) {
	v, err := s.venues.Get(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return s.tables.FindByVenue(ctx, v.ID)
}

func (s *Service) Reserve(ctx context.Context, userID, tableID string, slot time.Time, partySize int64) (*table.Reservation, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	t, err := s.tables.FindOne(ctx, tableID)
	if stderrors.Is(err, table.ErrNotFound) || stderrors.Is(err, table.ErrInvalidObjectId) {
		return nil, errors.New(errno.TableNotFound, "table not found")
	}
	if err != nil {
		return nil, err
	}
	slot = slot.UTC().Truncate(SlotSize)
	switch {
	case slot.Before(s.now()):
		return nil, errors.New(errno.InvalidParam, "slot must be in the future")
	case partySize <= 0 || partySize > t.Seats:
		return nil, errors.New(errno.InvalidParam, "party size does not fit the table")
	}

	r := &table.Reservation{
		TableID:   t.ID,
		VenueID:   t.VenueID,
		UserID:    uid,
		Slot:      slot,
		PartySize: partySize,
		Status:    table.ReservationBooked,
	}
	if err := s.reservations.Insert(ctx, r); err != nil {
		if stderrors.Is(err, table.ErrSlotTaken) {
			return nil, errors.New(errno.ReservationConflict, "table is already booked for this slot")
		}
		return nil, err
	}
	s.announce(ctx, r, EventReservationCreated)
	return r, nil
}

func (s *Service) MyReservations(ctx context.Context, userID string) ([]*table.Reservation, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	return s.reservations.FindByUser(ctx, uid)
}

// ListReservations returns booked reservations of a venue within [from, to).
// A zero range covers the next seven days.
func (s *Service) ListReservations(ctx context.Context, actor venuesvc.Actor, venueID string, from, to time.Time) ([]*table.Reservation, error) {
	v, err := s.venues.Manageable(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = s.now().Truncate(24 * time.Hour)
	}
	if to.IsZero() || !to.After(from) {
		to = from.Add(7 * 24 * time.Hour)
	}
	return s.reservations.FindByVenue(ctx, v.ID, from, to)
}

func (s *Service) Cancel(ctx context.Context, userID, reservationID string) error {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return errors.New(errno.InvalidToken, "invalid caller")
	}
	r, err := s.reservations.FindOne(ctx, reservationID)
	if stderrors.Is(err, table.ErrNotFound) || stderrors.Is(err, table.ErrInvalidObjectId) {
		return errors.New(errno.ReservationNotFound, "reservation not found")
	}
	if err != nil {
		return err
	}
	ok, err := s.reservations.Cancel(ctx, r.ID, uid)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errno.ReservationNotFound, "reservation not found")
	}
	r.Status = table.ReservationCancelled
	s.announce(ctx, r, EventReservationCancelled)
	return nil
}

func (s *Service) announce(ctx context.Context, r *table.Reservation, typ string) {
	ev := notify.RoomEvent{Type: typ, Data: r}
	if err := s.rooms.PublishRoom(ctx, r.VenueID.Hex(), ev); err != nil {
		logx.WithContext(ctx).Errorw("publish room event failed",
			logx.Field("type", typ), logx.Field("err", err.Error()))
	}
}

package table

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Reservation struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TableID   bson.ObjectID `bson:"tableId" json:"tableId"`
	VenueID   bson.ObjectID `bson:"venueId" json:"venueId"`
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	Slot      time.Time     `bson:"slot" json:"slot"`
	PartySize int64         `bson:"partySize" json:"partySize"`
	Status    string        `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

var _ ReservationModel = (*customReservationModel)(nil)

type (
	// ReservationModel is an interface to be customized, add more methods here,
	// and implement the added methods in customReservationModel.
	ReservationModel interface {
		reservationModel
		FindByUser(ctx context.Context, userID bson.ObjectID) ([]*Reservation, error)
		FindByVenue(ctx context.Context, venueID bson.ObjectID, from, to time.Time) ([]*Reservation, error)
		Cancel(ctx context.Context, id, userID bson.ObjectID) (bool, error)
	}

	reservationModel interface {
		Insert(ctx context.Context, data *Reservation) error
		FindOne(ctx context.Context, id string) (*Reservation, error)
	}

	defaultReservationModel struct {
		conn *mon.Model
	}

	customReservationModel struct {
		*defaultReservationModel
	}
)

func NewReservationModel(url, db, collection string) ReservationModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customReservationModel{
		defaultReservationModel: &defaultReservationModel{conn: conn},
	}
}

// ReservationIndexes makes (tableId, slot) unique among booked reservations
// so a cancelled slot can be booked again.
func ReservationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tableId", Value: 1}, {Key: "slot", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": ReservationBooked}),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "slot", Value: -1}}},
		{Keys: bson.D{{Key: "venueId", Value: 1}, {Key: "slot", Value: 1}}},
	}
}

func (m *defaultReservationModel) Insert(ctx context.Context, data *Reservation) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
	}
	_, err := m.conn.InsertOne(ctx, data)
	if mongox.IsDuplicateKey(err) {
		return ErrSlotTaken
	}
	return err
}

func (m *defaultReservationModel) FindOne(ctx context.Context, id string) (*Reservation, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Reservation
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customReservationModel) FindByUser(ctx context.Context, userID bson.ObjectID) ([]*Reservation, error) {
	var list []*Reservation
	if err := m.conn.Find(ctx, &list, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "slot", Value: -1}})); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *customReservationModel) FindByVenue(ctx context.Context, venueID bson.ObjectID, from, to time.Time) ([]*Reservation, error) {
	filter := bson.M{
		"venueId": venueID,
		"status":  ReservationBooked,
		"slot":    bson.M{"$gte": from, "$lt": to},
	}
	var list []*Reservation
	if err := m.conn.Find(ctx, &list, filter, options.Find().SetSort(bson.D{{Key: "slot", Value: 1}})); err != nil {
		return nil, err
	}
	return list, nil
}

// Cancel only touches the caller's own booked reservation.
func (m *customReservationModel) Cancel(ctx context.Context, id, userID bson.ObjectID) (bool, error) {
	res, err := m.conn.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID, "status": ReservationBooked},
		bson.M{"$set": bson.M{"status": ReservationCancelled}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

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

type Table struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VenueID   bson.ObjectID `bson:"venueId" json:"venueId"`
	Name      string        `bson:"name" json:"name"`
	Seats     int64         `bson:"seats" json:"seats"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

var _ TableModel = (*customTableModel)(nil)

type (
	// TableModel is an interface to be customized, add more methods here,
	// and implement the added methods in customTableModel.
	TableModel interface {
		tableModel
		FindByVenue(ctx context.Context, venueID bson.ObjectID) ([]*Table, error)
	}

	tableModel interface {
		Insert(ctx context.Context, data *Table) error
		FindOne(ctx context.Context, id string) (*Table, error)
	}

	defaultTableModel struct {
		conn *mon.Model
	}

	customTableModel struct {
		*defaultTableModel
	}
)

func NewTableModel(url, db, collection string) TableModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customTableModel{
		defaultTableModel: &defaultTableModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "venueId", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func (m *defaultTableModel) Insert(ctx context.Context, data *Table) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

func (m *defaultTableModel) FindOne(ctx context.Context, id string) (*Table, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Table
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customTableModel) FindByVenue(ctx context.Context, venueID bson.ObjectID) ([]*Table, error) {
	var list []*Table
	if err := m.conn.Find(ctx, &list, bson.M{"venueId": venueID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}})); err != nil {
		return nil, err
	}
	return list, nil
}

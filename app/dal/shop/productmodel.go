package shop

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VenueID     bson.ObjectID `bson:"venueId" json:"venueId"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	PriceCents  int64         `bson:"priceCents" json:"priceCents"`
	Currency    string        `bson:"currency" json:"currency"`
	Stock       int64         `bson:"stock" json:"stock"`
	Active      bool          `bson:"active" json:"active"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

var _ ProductModel = (*customProductModel)(nil)

type (
	// ProductModel is an interface to be customized, add more methods here,
	// and implement the added methods in customProductModel.
	ProductModel interface {
		productModel
		FindPageByVenue(ctx context.Context, venueID bson.ObjectID, page, size int64) ([]*Product, int64, error)
	}

	productModel interface {
		Insert(ctx context.Context, data *Product) error
		FindOne(ctx context.Context, id string) (*Product, error)
	}

	defaultProductModel struct {
		conn *mon.Model
	}

	customProductModel struct {
		*defaultProductModel
	}
)

func NewProductModel(url, db, collection string) ProductModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customProductModel{
		defaultProductModel: &defaultProductModel{conn: conn},
	}
}

func ProductIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "venueId", Value: 1}, {Key: "name", Value: 1}}},
	}
}

func (m *defaultProductModel) Insert(ctx context.Context, data *Product) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

func (m *defaultProductModel) FindOne(ctx context.Context, id string) (*Product, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Product
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customProductModel) FindPageByVenue(ctx context.Context, venueID bson.ObjectID, page, size int64) ([]*Product, int64, error) {
	filter := bson.M{"venueId": venueID, "active": true}
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	var list []*Product
	if err := m.conn.Find(ctx, &list, filter, mongox.Page(page, size).SetSort(bson.D{{Key: "name", Value: 1}})); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

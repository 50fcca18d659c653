package venue

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Venue struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID     bson.ObjectID `bson:"ownerId" json:"ownerId"`
	Name        string        `bson:"name" json:"name"`
	Slug        string        `bson:"slug" json:"slug"`
	City        string        `bson:"city,omitempty" json:"city,omitempty"`
	Address     string        `bson:"address,omitempty" json:"address,omitempty"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

var _ VenueModel = (*customVenueModel)(nil)

type (
	// VenueModel is an interface to be customized, add more methods here,
	// and implement the added methods in customVenueModel.
	VenueModel interface {
		venueModel
		FindPage(ctx context.Context, city string, page, size int64) ([]*Venue, int64, error)
	}

	venueModel interface {
		Insert(ctx context.Context, data *Venue) error
		FindOne(ctx context.Context, id string) (*Venue, error)
		Update(ctx context.Context, data *Venue) error
		Delete(ctx context.Context, id string) (int64, error)
	}

	defaultVenueModel struct {
		conn *mon.Model
	}

	customVenueModel struct {
		*defaultVenueModel
	}
)

func NewVenueModel(url, db, collection string) VenueModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customVenueModel{
		defaultVenueModel: &defaultVenueModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}}},
	}
}

func (m *defaultVenueModel) Insert(ctx context.Context, data *Venue) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
		data.UpdatedAt = data.CreatedAt
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

func (m *defaultVenueModel) FindOne(ctx context.Context, id string) (*Venue, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Venue
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *defaultVenueModel) Update(ctx context.Context, data *Venue) error {
	data.UpdatedAt = time.Now()
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": data.ID}, bson.M{"$set": bson.M{
		"name":        data.Name,
		"slug":        data.Slug,
		"city":        data.City,
		"address":     data.Address,
		"description": data.Description,
		"updatedAt":   data.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *defaultVenueModel) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return 0, err
	}
	return m.conn.DeleteOne(ctx, bson.M{"_id": oid})
}

func (m *customVenueModel) FindPage(ctx context.Context, city string, page, size int64) ([]*Venue, int64, error) {
	filter := bson.M{}
	if city != "" {
		filter["city"] = city
	}
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	var list []*Venue
	if err := m.conn.Find(ctx, &list, filter, mongox.Page(page, size).SetSort(bson.D{{Key: "name", Value: 1}})); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

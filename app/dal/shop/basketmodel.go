package shop

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type BasketItem struct {
	ProductID      bson.ObjectID `bson:"productId" json:"productId"`
	Name           string        `bson:"name" json:"name"`
	Quantity       int64         `bson:"quantity" json:"quantity"`
	UnitPriceCents int64         `bson:"unitPriceCents" json:"unitPriceCents"`
}

type Basket struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          bson.ObjectID `bson:"userId" json:"userId"`
	VenueID         bson.ObjectID `bson:"venueId,omitempty" json:"venueId,omitempty"`
	Items           []BasketItem  `bson:"items" json:"items"`
	Currency        string        `bson:"currency,omitempty" json:"currency,omitempty"`
	Status          string        `bson:"status" json:"status"`
	PaymentIntentID string        `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Total is the basket value in minor units.
func (b *Basket) Total() int64 {
	var total int64
	for _, it := range b.Items {
		total += it.Quantity * it.UnitPriceCents
	}
	return total
}

var _ BasketModel = (*customBasketModel)(nil)

type (
	// BasketModel is an interface to be customized, add more methods here,
	// and implement the added methods in customBasketModel.
	BasketModel interface {
		basketModel
		FindOrCreateOpen(ctx context.Context, userID bson.ObjectID) (*Basket, error)
		SaveItems(ctx context.Context, data *Basket) error
		MarkOrdered(ctx context.Context, id bson.ObjectID, paymentIntentID string) error
	}

	basketModel interface {
		FindOne(ctx context.Context, id string) (*Basket, error)
	}

	defaultBasketModel struct {
		conn *mon.Model
	}

	customBasketModel struct {
		*defaultBasketModel
	}
)

func NewBasketModel(url, db, collection string) BasketModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customBasketModel{
		defaultBasketModel: &defaultBasketModel{conn: conn},
	}
}

func BasketIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": BasketOpen}),
		},
	}
}

func (m *defaultBasketModel) FindOne(ctx context.Context, id string) (*Basket, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Basket
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

// FindOrCreateOpen returns the user's open basket, creating an empty one.
func (m *customBasketModel) FindOrCreateOpen(ctx context.Context, userID bson.ObjectID) (*Basket, error) {
	now := time.Now()
	filter := bson.M{"userId": userID, "status": BasketOpen}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":       bson.NewObjectID(),
		"items":     []BasketItem{},
		"createdAt": now,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var data Basket
	err := m.conn.FindOneAndUpdate(ctx, &data, filter, update, opts)
	if mongox.IsDuplicateKey(err) {
		err = m.conn.FindOne(ctx, &data, filter)
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customBasketModel) SaveItems(ctx context.Context, data *Basket) error {
	data.UpdatedAt = time.Now()
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": data.ID, "status": BasketOpen}, bson.M{"$set": bson.M{
		"items":     data.Items,
		"venueId":   data.VenueID,
		"currency":  data.Currency,
		"updatedAt": data.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOrdered closes the basket; repeating it for the same intent is a no-op.
func (m *customBasketModel) MarkOrdered(ctx context.Context, id bson.ObjectID, paymentIntentID string) error {
	_, err := m.conn.UpdateOne(ctx, bson.M{"_id": id, "status": BasketOpen}, bson.M{"$set": bson.M{
		"status":          BasketOrdered,
		"paymentIntentId": paymentIntentID,
		"updatedAt":       time.Now(),
	}})
	return err
}

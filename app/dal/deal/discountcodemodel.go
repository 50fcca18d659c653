package deal

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DiscountCode amounts are minor units; PercentOff is 1-100.
type DiscountCode struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code        string        `bson:"code" json:"code"`
	VenueID     bson.ObjectID `bson:"venueId,omitempty" json:"venueId,omitempty"`
	Kind        string        `bson:"kind" json:"kind"`
	AmountOff   int64         `bson:"amountOff,omitempty" json:"amountOff,omitempty"`
	PercentOff  int64         `bson:"percentOff,omitempty" json:"percentOff,omitempty"`
	MaxDiscount int64         `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
	MinSpend    int64         `bson:"minSpend,omitempty" json:"minSpend,omitempty"`
	StartsAt    time.Time     `bson:"startsAt" json:"startsAt"`
	EndsAt      time.Time     `bson:"endsAt" json:"endsAt"`
	UsageLimit  int64         `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	Redemptions []string      `bson:"redemptions" json:"-"`
	Active      bool          `bson:"active" json:"active"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

var _ DiscountCodeModel = (*customDiscountCodeModel)(nil)

type (
	// DiscountCodeModel is an interface to be customized, add more methods here,
	// and implement the added methods in customDiscountCodeModel.
	DiscountCodeModel interface {
		discountCodeModel
		FindOneByCode(ctx context.Context, code string) (*DiscountCode, error)
		FindPage(ctx context.Context, page, size int64) ([]*DiscountCode, int64, error)
		AddRedemption(ctx context.Context, code, paymentIntentID string) error
	}

	discountCodeModel interface {
		Insert(ctx context.Context, data *DiscountCode) error
	}

	defaultDiscountCodeModel struct {
		conn *mon.Model
	}

	customDiscountCodeModel struct {
		*defaultDiscountCodeModel
	}
)

func NewDiscountCodeModel(url, db, collection string) DiscountCodeModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customDiscountCodeModel{
		defaultDiscountCodeModel: &defaultDiscountCodeModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func (m *defaultDiscountCodeModel) Insert(ctx context.Context, data *DiscountCode) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
	}
	if data.Redemptions == nil {
		data.Redemptions = []string{}
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

// FindOneByCode expects an upper-cased code.
func (m *customDiscountCodeModel) FindOneByCode(ctx context.Context, code string) (*DiscountCode, error) {
	var data DiscountCode
	if err := m.conn.FindOne(ctx, &data, bson.M{"code": code}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customDiscountCodeModel) FindPage(ctx context.Context, page, size int64) ([]*DiscountCode, int64, error) {
	total, err := m.conn.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	var list []*DiscountCode
	if err := m.conn.Find(ctx, &list, bson.M{}, mongox.Page(page, size).SetSort(bson.D{{Key: "createdAt", Value: -1}})); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// AddRedemption records the payment intent once, however often it is called.
func (m *customDiscountCodeModel) AddRedemption(ctx context.Context, code, paymentIntentID string) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"code": code}, bson.M{
		"$addToSet": bson.M{"redemptions": paymentIntentID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

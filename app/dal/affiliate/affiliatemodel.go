package affiliate

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Affiliate struct {
	ID                bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            bson.ObjectID `bson:"userId" json:"userId"`
	Code              string        `bson:"code" json:"code"`
	CommissionPercent int64         `bson:"commissionPercent" json:"commissionPercent"`
	Clicks            int64         `bson:"clicks" json:"clicks"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
}

var _ AffiliateModel = (*customAffiliateModel)(nil)

type (
	// AffiliateModel is an interface to be customized, add more methods here,
	// and implement the added methods in customAffiliateModel.
	AffiliateModel interface {
		affiliateModel
		FindOneByUser(ctx context.Context, userID bson.ObjectID) (*Affiliate, error)
		FindOneByCode(ctx context.Context, code string) (*Affiliate, error)
		IncClicks(ctx context.Context, code string) error
	}

	affiliateModel interface {
		Insert(ctx context.Context, data *Affiliate) error
	}

	defaultAffiliateModel struct {
		conn *mon.Model
	}

	customAffiliateModel struct {
		*defaultAffiliateModel
	}
)

func NewAffiliateModel(url, db, collection string) AffiliateModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customAffiliateModel{
		defaultAffiliateModel: &defaultAffiliateModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func (m *defaultAffiliateModel) Insert(ctx context.Context, data *Affiliate) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

func (m *customAffiliateModel) FindOneByUser(ctx context.Context, userID bson.ObjectID) (*Affiliate, error) {
	var data Affiliate
	if err := m.conn.FindOne(ctx, &data, bson.M{"userId": userID}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customAffiliateModel) FindOneByCode(ctx context.Context, code string) (*Affiliate, error) {
	var data Affiliate
	if err := m.conn.FindOne(ctx, &data, bson.M{"code": code}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customAffiliateModel) IncClicks(ctx context.Context, code string) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$inc": bson.M{"clicks": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

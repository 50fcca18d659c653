package affiliate

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Commission struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AffiliateUserID bson.ObjectID `bson:"affiliateUserId" json:"affiliateUserId"`
	PaymentIntentID string        `bson:"paymentIntentId" json:"paymentIntentId"`
	OrderNo         string        `bson:"orderNo" json:"orderNo"`
	AmountCents     int64         `bson:"amountCents" json:"amountCents"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
}

var _ CommissionModel = (*customCommissionModel)(nil)

type (
	// CommissionModel is an interface to be customized, add more methods here,
	// and implement the added methods in customCommissionModel.
	CommissionModel interface {
		commissionModel
		FindPageByAffiliate(ctx context.Context, affiliateUserID bson.ObjectID, page, size int64) ([]*Commission, int64, error)
	}

	commissionModel interface {
		Upsert(ctx context.Context, data *Commission) error
	}

	defaultCommissionModel struct {
		conn *mon.Model
	}

	customCommissionModel struct {
		*defaultCommissionModel
	}
)

func NewCommissionModel(url, db, collection string) CommissionModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customCommissionModel{
		defaultCommissionModel: &defaultCommissionModel{conn: conn},
	}
}

func CommissionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "affiliateUserId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
}

// Upsert writes at most one commission per payment intent.
func (m *defaultCommissionModel) Upsert(ctx context.Context, data *Commission) error {
	filter := bson.M{"paymentIntentId": data.PaymentIntentID}
	update := bson.M{"$setOnInsert": bson.M{
		"affiliateUserId": data.AffiliateUserID,
		"orderNo":         data.OrderNo,
		"amountCents":     data.AmountCents,
		"createdAt":       time.Now(),
	}}
	_, err := m.conn.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if mongox.IsDuplicateKey(err) {
		return nil
	}
	return err
}

func (m *customCommissionModel) FindPageByAffiliate(ctx context.Context, affiliateUserID bson.ObjectID, page, size int64) ([]*Commission, int64, error) {
	filter := bson.M{"affiliateUserId": affiliateUserID}
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	var list []*Commission
	if err := m.conn.Find(ctx, &list, filter, mongox.Page(page, size).SetSort(bson.D{{Key: "createdAt", Value: -1}})); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

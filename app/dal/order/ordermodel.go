package order

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PaymentMetadata struct {
	ChargeID   string `bson:"chargeId,omitempty" json:"chargeId,omitempty"`
	CardBrand  string `bson:"cardBrand,omitempty" json:"cardBrand,omitempty"`
	CardLast4  string `bson:"cardLast4,omitempty" json:"cardLast4,omitempty"`
	ReceiptURL string `bson:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
}

// Order amounts are integer minor units.
type Order struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNo         string          `bson:"orderNo" json:"orderNo"`
	PaymentIntentID string          `bson:"paymentIntentId" json:"paymentIntentId"`
	Kind            string          `bson:"kind" json:"kind"`
	ActivityID      bson.ObjectID   `bson:"activityId,omitempty" json:"activityId,omitempty"`
	ScheduleID      bson.ObjectID   `bson:"scheduleId,omitempty" json:"scheduleId,omitempty"`
	BasketID        bson.ObjectID   `bson:"basketId,omitempty" json:"basketId,omitempty"`
	VenueID         bson.ObjectID   `bson:"venueId,omitempty" json:"venueId,omitempty"`
	UserID          bson.ObjectID   `bson:"userId" json:"userId"`
	Email           string          `bson:"email" json:"email"`
	Status          string          `bson:"status" json:"status"`
	Quantity        int64           `bson:"quantity" json:"quantity"`
	Currency        string          `bson:"currency" json:"currency"`
	OriginalPrice   int64           `bson:"originalPrice" json:"originalPrice"`
	DiscountAmount  int64           `bson:"discountAmount" json:"discountAmount"`
	DiscountCode    string          `bson:"discountCode,omitempty" json:"discountCode,omitempty"`
	AffiliateUserID bson.ObjectID   `bson:"affiliateUserId,omitempty" json:"affiliateUserId,omitempty"`
	PaidAmount      int64           `bson:"paidAmount" json:"paidAmount"`
	PaymentMode     string          `bson:"paymentMode" json:"paymentMode"`
	PaidAt          time.Time       `bson:"paidAt" json:"paidAt"`
	PaymentMetadata PaymentMetadata `bson:"paymentMetadata" json:"paymentMetadata"`
	Announced       bool            `bson:"announced" json:"-"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

var _ OrderModel = (*customOrderModel)(nil)

type (
	// OrderModel is an interface to be customized, add more methods here,
	// and implement the added methods in customOrderModel.
	OrderModel interface {
		orderModel
		FindOneByPaymentIntent(ctx context.Context, paymentIntentID string) (*Order, error)
		UpsertByPaymentIntent(ctx context.Context, data *Order) (bool, error)
		FindPageByUser(ctx context.Context, userID bson.ObjectID, page, size int64) ([]*Order, int64, error)
		MarkAnnounced(ctx context.Context, paymentIntentID string) error
	}

	orderModel interface {
		FindOne(ctx context.Context, id string) (*Order, error)
	}

	defaultOrderModel struct {
		conn *mon.Model
	}

	customOrderModel struct {
		*defaultOrderModel
	}
)

func NewOrderModel(url, db, collection string) OrderModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customOrderModel{
		defaultOrderModel: &defaultOrderModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "orderNo", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "paidAt", Value: -1}}},
	}
}

func (m *defaultOrderModel) FindOne(ctx context.Context, id string) (*Order, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Order
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customOrderModel) FindOneByPaymentIntent(ctx context.Context, paymentIntentID string) (*Order, error) {
	var data Order
	if err := m.conn.FindOne(ctx, &data, bson.M{"paymentIntentId": paymentIntentID}); err != nil {
		return nil, err
	}
	return &data, nil
}

// UpsertByPaymentIntent inserts the order if no document holds its payment
// intent id and overwrites the mutable fields otherwise. orderNo, createdAt
// and the announced flag are only written on insert. Reports whether a
// document was created.
func (m *customOrderModel) UpsertByPaymentIntent(ctx context.Context, data *Order) (bool, error) {
	filter := bson.M{"paymentIntentId": data.PaymentIntentID}
	update := upsertUpdate(data, time.Now())

	res, err := m.conn.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if mongox.IsDuplicateKey(err) {
		// a concurrent delivery inserted first; this pass only updates
		delete(update, "$setOnInsert")
		res, err = m.conn.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// upsertUpdate sets the optional references that are present and unsets
// the rest, so an update never leaves a zero ObjectID behind.
func upsertUpdate(data *Order, now time.Time) bson.M {
	set := bson.M{
		"kind":            data.Kind,
		"userId":          data.UserID,
		"email":           data.Email,
		"status":          data.Status,
		"quantity":        data.Quantity,
		"currency":        data.Currency,
		"originalPrice":   data.OriginalPrice,
		"discountAmount":  data.DiscountAmount,
		"discountCode":    data.DiscountCode,
		"paidAmount":      data.PaidAmount,
		"paymentMode":     data.PaymentMode,
		"paidAt":          data.PaidAt,
		"paymentMetadata": data.PaymentMetadata,
		"updatedAt":       now,
	}
	unset := bson.M{}
	refs := []struct {
		field string
		id    bson.ObjectID
	}{
		{"activityId", data.ActivityID},
		{"scheduleId", data.ScheduleID},
		{"basketId", data.BasketID},
		{"venueId", data.VenueID},
		{"affiliateUserId", data.AffiliateUserID},
	}
	for _, ref := range refs {
		if ref.id.IsZero() {
			unset[ref.field] = ""
		} else {
			set[ref.field] = ref.id
		}
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"orderNo":   data.OrderNo,
			"announced": false,
			"createdAt": now,
		},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// MarkAnnounced records that the order.paid side effects went out.
func (m *customOrderModel) MarkAnnounced(ctx context.Context, paymentIntentID string) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"paymentIntentId": paymentIntentID}, bson.M{"$set": bson.M{
		"announced": true,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *customOrderModel) FindPageByUser(ctx context.Context, userID bson.ObjectID, page, size int64) ([]*Order, int64, error) {
	filter := bson.M{"userId": userID}
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	var list []*Order
	if err := m.conn.Find(ctx, &list, filter, mongox.Page(page, size).SetSort(bson.D{{Key: "paidAt", Value: -1}})); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

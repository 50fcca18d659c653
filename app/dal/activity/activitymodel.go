package activity

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Schedule struct {
	ID         bson.ObjectID `bson:"_id" json:"id"`
	StartsAt   time.Time     `bson:"startsAt" json:"startsAt"`
	EndsAt     time.Time     `bson:"endsAt" json:"endsAt"`
	Capacity   int           `bson:"capacity" json:"capacity"`
	PriceCents int64         `bson:"priceCents" json:"priceCents"`
}

type Media struct {
	Key         string    `bson:"key" json:"key"`
	URL         string    `bson:"url" json:"url"`
	ContentType string    `bson:"contentType" json:"contentType"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

type Activity struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VenueID     bson.ObjectID `bson:"venueId" json:"venueId"`
	ParentID    bson.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	CreatorID   bson.ObjectID `bson:"creatorId" json:"creatorId"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Category    string        `bson:"category,omitempty" json:"category,omitempty"`
	StartTime   time.Time     `bson:"startTime" json:"startTime"`
	EndTime     time.Time     `bson:"endTime" json:"endTime"`
	Currency    string        `bson:"currency" json:"currency"`
	Schedules   []Schedule    `bson:"schedules" json:"schedules"`
	Media       []Media       `bson:"media,omitempty" json:"media,omitempty"`
	Status      string        `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Schedule returns the schedule with the given hex id, if still present.
func (a *Activity) Schedule(id string) (*Schedule, bool) {
	for i := range a.Schedules {
		if a.Schedules[i].ID.Hex() == id {
			return &a.Schedules[i], true
		}
	}
	return nil, false
}

var _ ActivityModel = (*customActivityModel)(nil)

type (
	// ActivityModel is an interface to be customized, add more methods here,
	// and implement the added methods in customActivityModel.
	ActivityModel interface {
		activityModel
		FindSiblings(ctx context.Context, parentID, excludeID bson.ObjectID) ([]*Activity, error)
		FindPageByVenue(ctx context.Context, venueID bson.ObjectID, page, size int64) ([]*Activity, int64, error)
		PushSchedule(ctx context.Context, id bson.ObjectID, s Schedule) error
		PullSchedule(ctx context.Context, id, scheduleID bson.ObjectID) (bool, error)
		PushMedia(ctx context.Context, id bson.ObjectID, media Media) error
	}

	activityModel interface {
		Insert(ctx context.Context, data *Activity) error
		FindOne(ctx context.Context, id string) (*Activity, error)
		Update(ctx context.Context, data *Activity) error
		Delete(ctx context.Context, id string) (int64, error)
	}

	defaultActivityModel struct {
		conn *mon.Model
	}

	customActivityModel struct {
		*defaultActivityModel
	}
)

func NewActivityModel(url, db, collection string) ActivityModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customActivityModel{
		defaultActivityModel: &defaultActivityModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "venueId", Value: 1}, {Key: "startTime", Value: 1}}},
		{Keys: bson.D{{Key: "parentId", Value: 1}, {Key: "startTime", Value: 1}}},
	}
}

func (m *defaultActivityModel) Insert(ctx context.Context, data *Activity) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
		data.UpdatedAt = data.CreatedAt
	}
	if data.Schedules == nil {
		data.Schedules = []Schedule{}
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

func (m *defaultActivityModel) FindOne(ctx context.Context, id string) (*Activity, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data Activity
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *defaultActivityModel) Update(ctx context.Context, data *Activity) error {
	data.UpdatedAt = time.Now()
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": data.ID}, bson.M{"$set": bson.M{
		"title":       data.Title,
		"description": data.Description,
		"category":    data.Category,
		"startTime":   data.StartTime,
		"endTime":     data.EndTime,
		"currency":    data.Currency,
		"status":      data.Status,
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

func (m *defaultActivityModel) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return 0, err
	}
	return m.conn.DeleteOne(ctx, bson.M{"_id": oid})
}

// FindSiblings lists activities sharing parentID, oldest start first.
func (m *customActivityModel) FindSiblings(ctx context.Context, parentID, excludeID bson.ObjectID) ([]*Activity, error) {
	filter := bson.M{"parentId": parentID, "_id": bson.M{"$ne": excludeID}}
	var list []*Activity
	if err := m.conn.Find(ctx, &list, filter, options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *customActivityModel) FindPageByVenue(ctx context.Context, venueID bson.ObjectID, page, size int64) ([]*Activity, int64, error) {
	filter := bson.M{"venueId": venueID}
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	var list []*Activity
	if err := m.conn.Find(ctx, &list, filter, mongox.Page(page, size).SetSort(bson.D{{Key: "startTime", Value: 1}})); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (m *customActivityModel) PushSchedule(ctx context.Context, id bson.ObjectID, s Schedule) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"schedules": s},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullSchedule reports whether the schedule was present.
func (m *customActivityModel) PullSchedule(ctx context.Context, id, scheduleID bson.ObjectID) (bool, error) {
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": id, "schedules._id": scheduleID}, bson.M{
		"$pull": bson.M{"schedules": bson.M{"_id": scheduleID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (m *customActivityModel) PushMedia(ctx context.Context, id bson.ObjectID, media Media) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"media": media},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

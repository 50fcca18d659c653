package user

import (
	"context"
	"time"

	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type User struct {
	ID    bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email string        `bson:"email" json:"email"`
	Name  string        `bson:"name,omitempty" json:"name,omitempty"`
	// Password is a bcrypt hash; empty until the owner sets one.
	Password  string    `bson:"password" json:"-"`
	Activated bool      `bson:"activated" json:"activated"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

var _ UserModel = (*customUserModel)(nil)

type (
	// UserModel is an interface to be customized, add more methods here,
	// and implement the added methods in customUserModel.
	UserModel interface {
		userModel
		FindOneByEmail(ctx context.Context, email string) (*User, error)
		SetPassword(ctx context.Context, id bson.ObjectID, hash string) error
		UpdateRole(ctx context.Context, id bson.ObjectID, role string) error
	}

	userModel interface {
		Insert(ctx context.Context, data *User) error
		FindOne(ctx context.Context, id string) (*User, error)
	}

	defaultUserModel struct {
		conn *mon.Model
	}

	customUserModel struct {
		*defaultUserModel
	}
)

func NewUserModel(url, db, collection string) UserModel {
	conn := mon.MustNewModel(url, db, collection)
	return &customUserModel{
		defaultUserModel: &defaultUserModel{conn: conn},
	}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func (m *defaultUserModel) Insert(ctx context.Context, data *User) error {
	if data.ID.IsZero() {
		data.ID = bson.NewObjectID()
		data.CreatedAt = time.Now()
		data.UpdatedAt = data.CreatedAt
	}
	_, err := m.conn.InsertOne(ctx, data)
	return err
}

func (m *defaultUserModel) FindOne(ctx context.Context, id string) (*User, error) {
	oid, err := mongox.ObjectID(id)
	if err != nil {
		return nil, err
	}
	var data User
	if err := m.conn.FindOne(ctx, &data, bson.M{"_id": oid}); err != nil {
		return nil, err
	}
	return &data, nil
}

// FindOneByEmail expects the caller to have lower-cased email.
func (m *customUserModel) FindOneByEmail(ctx context.Context, email string) (*User, error) {
	var data User
	if err := m.conn.FindOne(ctx, &data, bson.M{"email": email}); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *customUserModel) SetPassword(ctx context.Context, id bson.ObjectID, hash string) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"activated": true,
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

func (m *customUserModel) UpdateRole(ctx context.Context, id bson.ObjectID, role string) error {
	res, err := m.conn.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":      role,
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

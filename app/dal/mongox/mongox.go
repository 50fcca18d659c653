package mongox

import (
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrNotFound        = mon.ErrNotFound
	ErrInvalidObjectId = errors.New("invalid objectId")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type MongoConf struct {
	URI      string
	Database string
	// Timeout bounds startup work such as index creation.
	Timeout time.Duration `json:",default=10s"`
}

func ObjectID(hex string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, ErrInvalidObjectId
	}
	return oid, nil
}

// Page normalises 1-based page/size and returns skip/limit find options.
func Page(page, size int64) *options.FindOptionsBuilder {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return options.Find().SetSkip((page - 1) * size).SetLimit(size)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

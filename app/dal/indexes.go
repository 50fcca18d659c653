package dal

import (
	"context"
	"fmt"

	"VenueHub/app/dal/activity"
	"VenueHub/app/dal/affiliate"
	"VenueHub/app/dal/deal"
	"VenueHub/app/dal/mongox"
	"VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	"VenueHub/app/dal/table"
	"VenueHub/app/dal/user"
	"VenueHub/app/dal/venue"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EnsureIndexes creates every index the models rely on, notably the
// unique keys that make upserts and provisioning race safe.
func EnsureIndexes(ctx context.Context, c mongox.MongoConf) error {
	all := map[string][]mongo.IndexModel{
		user.Collection:                user.Indexes(),
		venue.Collection:               venue.Indexes(),
		activity.Collection:            activity.Indexes(),
		order.Collection:               order.Indexes(),
		shop.ProductCollection:         shop.ProductIndexes(),
		shop.BasketCollection:          shop.BasketIndexes(),
		deal.Collection:                deal.Indexes(),
		affiliate.Collection:           affiliate.Indexes(),
		affiliate.CommissionCollection: affiliate.CommissionIndexes(),
		table.Collection:               table.Indexes(),
		table.ReservationCollection:    table.ReservationIndexes(),
	}
	for coll, models := range all {
		if len(models) == 0 {
			continue
		}
		conn, err := mon.NewModel(c.URI, c.Database, coll)
		if err != nil {
			return fmt.Errorf("open %s: %w", coll, err)
		}
		if _, err := conn.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

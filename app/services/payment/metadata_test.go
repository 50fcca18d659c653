package payment

import (
	"testing"

	"VenueHub/app/common/consts/errno"
	orderdal "VenueHub/app/dal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		def  int64
		want int64
	}{
		{"", 7, 7},
		{"2500", 0, 2500},
		{"  ", 3, 3},
		{"25.5", 0, 26},
		{"25.49", 0, 25},
		{"1e3", 0, 1000},
		{"-5", 9, 9},
		{"NaN", 4, 4},
		{"abc", 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAmount(tt.in, tt.def), tt.in)
	}
}

func TestParseCheckoutMetadataActivity(t *testing.T) {
	aid, sid, vid := bson.NewObjectID(), bson.NewObjectID(), bson.NewObjectID()
	m, err := ParseCheckoutMetadata(map[string]string{
		MetaKind:            "activity",
		MetaActivityID:      aid.Hex(),
		MetaScheduleID:      sid.Hex(),
		MetaVenueID:         vid.Hex(),
		MetaEmail:           " Buyer@Example.COM ",
		MetaQuantity:        "3",
		MetaOriginalPrice:   "4500",
		MetaDiscountAmount:  "not-a-number",
		MetaDiscountCode:    "spring",
		MetaAffiliateUserID: "garbage",
	})
	require.NoError(t, err)
	assert.Equal(t, aid, m.ActivityID)
	assert.Equal(t, sid, m.ScheduleID)
	assert.Equal(t, vid, m.VenueID)
	assert.Equal(t, "buyer@example.com", m.Email)
	assert.Equal(t, int64(3), m.Quantity)
	assert.Equal(t, int64(4500), m.OriginalPrice)
	assert.Equal(t, int64(0), m.DiscountAmount)
	assert.Equal(t, "SPRING", m.DiscountCode)
	assert.True(t, m.AffiliateUserID.IsZero())
}

func TestParseCheckoutMetadataRejectsMissingRequired(t *testing.T) {
	valid := func() map[string]string {
		return map[string]string{
			MetaKind:       orderdal.KindActivity,
			MetaActivityID: bson.NewObjectID().Hex(),
			MetaScheduleID: bson.NewObjectID().Hex(),
			MetaEmail:      "a@b.c",
		}
	}
	tests := map[string]func(md map[string]string){
		"no email":        func(md map[string]string) { delete(md, MetaEmail) },
		"bad email":       func(md map[string]string) { md[MetaEmail] = "nope" },
		"unknown kind":    func(md map[string]string) { md[MetaKind] = "gift" },
		"no activity":     func(md map[string]string) { delete(md, MetaActivityID) },
		"bad schedule":    func(md map[string]string) { md[MetaScheduleID] = "xyz" },
		"basket no owner": func(md map[string]string) {
			md[MetaKind] = orderdal.KindBasket
			md[MetaBasketID] = bson.NewObjectID().Hex()
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			md := valid()
			mutate(md)
			_, err := ParseCheckoutMetadata(md)
			var cm *errors.CodeMsg
			require.ErrorAs(t, err, &cm)
			assert.Equal(t, errno.InvalidParam, cm.Code)
		})
	}
}

func TestEncodeParsesBack(t *testing.T) {
	in := &CheckoutMetadata{
		Kind:            orderdal.KindBasket,
		BasketID:        bson.NewObjectID(),
		VenueID:         bson.NewObjectID(),
		UserID:          bson.NewObjectID(),
		Email:           "buyer@example.com",
		Name:            "Buyer",
		Quantity:        1,
		OriginalPrice:   1999,
		DiscountAmount:  200,
		DiscountCode:    "SPRING",
		AffiliateUserID: bson.NewObjectID(),
	}
	out, err := ParseCheckoutMetadata(in.Encode())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

package payment

import (
	"math"
	"strconv"
	"strings"

	"VenueHub/app/common/consts/errno"
	orderdal "VenueHub/app/dal/order"

	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Keys of the payment intent metadata written at checkout.
const (
	MetaKind            = "kind"
	MetaActivityID      = "activityId"
	MetaScheduleID      = "scheduleId"
	MetaBasketID        = "basketId"
	MetaVenueID         = "venueId"
	MetaUserID          = "userId"
	MetaEmail           = "email"
	MetaName            = "name"
	MetaQuantity        = "quantity"
	MetaOriginalPrice   = "originalPrice"
	MetaDiscountAmount  = "discountAmount"
	MetaDiscountCode    = "discountCode"
	MetaAffiliateUserID = "affiliateUserId"
)

// CheckoutMetadata is the typed form of the string map carried on a
// payment intent.
type CheckoutMetadata struct {
	Kind            string
	ActivityID      bson.ObjectID
	ScheduleID      bson.ObjectID
	BasketID        bson.ObjectID
	VenueID         bson.ObjectID
	UserID          bson.ObjectID
	Email           string
	Name            string
	Quantity        int64
	OriginalPrice   int64
	DiscountAmount  int64
	DiscountCode    string
	AffiliateUserID bson.ObjectID
}

// ParseCheckoutMetadata validates md. Required references fail with
// InvalidParam; optional numbers fall back to their defaults when absent
// or malformed.
func ParseCheckoutMetadata(md map[string]string) (*CheckoutMetadata, error) {
	get := func(k string) string { return strings.TrimSpace(md[k]) }

	m := &CheckoutMetadata{
		Kind:           get(MetaKind),
		Email:          strings.ToLower(get(MetaEmail)),
		Name:           get(MetaName),
		Quantity:       parseAmount(get(MetaQuantity), 1),
		OriginalPrice:  parseAmount(get(MetaOriginalPrice), 0),
		DiscountAmount: parseAmount(get(MetaDiscountAmount), 0),
		DiscountCode:   strings.ToUpper(get(MetaDiscountCode)),
	}
	if m.Quantity < 1 {
		m.Quantity = 1
	}
	if m.Email == "" || !strings.Contains(m.Email, "@") {
		return nil, invalidMeta(MetaEmail)
	}

	var err error
	switch m.Kind {
	case orderdal.KindActivity:
		if m.ActivityID, err = requiredID(md, MetaActivityID); err != nil {
			return nil, err
		}
		if m.ScheduleID, err = requiredID(md, MetaScheduleID); err != nil {
			return nil, err
		}
	case orderdal.KindBasket:
		if m.BasketID, err = requiredID(md, MetaBasketID); err != nil {
			return nil, err
		}
		if m.UserID, err = requiredID(md, MetaUserID); err != nil {
			return nil, err
		}
	default:
		return nil, invalidMeta(MetaKind)
	}

	m.VenueID = optionalID(get(MetaVenueID))
	if m.UserID.IsZero() {
		m.UserID = optionalID(get(MetaUserID))
	}
	m.AffiliateUserID = optionalID(get(MetaAffiliateUserID))
	return m, nil
}

// Encode is the inverse of ParseCheckoutMetadata. Zero values are left out.
func (m *CheckoutMetadata) Encode() map[string]string {
	md := map[string]string{
		MetaKind:          m.Kind,
		MetaEmail:         m.Email,
		MetaQuantity:      strconv.FormatInt(m.Quantity, 10),
		MetaOriginalPrice: strconv.FormatInt(m.OriginalPrice, 10),
	}
	putID := func(k string, id bson.ObjectID) {
		if !id.IsZero() {
			md[k] = id.Hex()
		}
	}
	putID(MetaActivityID, m.ActivityID)
	putID(MetaScheduleID, m.ScheduleID)
	putID(MetaBasketID, m.BasketID)
	putID(MetaVenueID, m.VenueID)
	putID(MetaUserID, m.UserID)
	putID(MetaAffiliateUserID, m.AffiliateUserID)
	if m.Name != "" {
		md[MetaName] = m.Name
	}
	if m.DiscountCode != "" {
		md[MetaDiscountCode] = m.DiscountCode
		md[MetaDiscountAmount] = strconv.FormatInt(m.DiscountAmount, 10)
	}
	return md
}

// parseAmount reads a non-negative base-10 integer, accepting a decimal
// form rounded to the nearest unit.
func parseAmount(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return def
		}
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return def
	}
	return int64(math.Round(f))
}

func requiredID(md map[string]string, key string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(md[key]))
	if err != nil {
		return bson.NilObjectID, invalidMeta(key)
	}
	return id, nil
}

func optionalID(s string) bson.ObjectID {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID
	}
	return id
}

func invalidMeta(key string) error {
	return errors.New(errno.InvalidParam, "payment metadata: missing or invalid "+key)
}

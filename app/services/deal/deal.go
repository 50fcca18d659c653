package deal

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/dal/deal"
	"VenueHub/app/dal/mongox"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Service struct {
	codes deal.DiscountCodeModel
	now   func() time.Time
}

func NewService(codes deal.DiscountCodeModel) *Service {
	return &Service{codes: codes, now: time.Now}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CreateCodeReq struct {
	Code        string
	VenueID     string
	Kind        string
	AmountOff   int64
	PercentOff  int64
	MaxDiscount int64
	MinSpend    int64
	StartsAt    time.Time
	EndsAt      time.Time
	UsageLimit  int64
}

func (s *Service) CreateCode(ctx context.Context, req CreateCodeReq) (*deal.DiscountCode, error) {
	code := NormalizeCode(req.Code)
	if code == "" {
		return nil, errors.New(errno.InvalidParam, "code is required")
	}
	switch req.Kind {
	case deal.KindCash:
		if req.AmountOff <= 0 {
			return nil, errors.New(errno.InvalidParam, "amountOff must be positive")
		}
	case deal.KindPercent:
		if req.PercentOff <= 0 || req.PercentOff > 100 {
			return nil, errors.New(errno.InvalidParam, "percentOff must be within 1-100")
		}
	default:
		return nil, errors.New(errno.InvalidParam, "kind must be cash or percent")
	}
	if !req.EndsAt.IsZero() && !req.EndsAt.After(req.StartsAt) {
		return nil, errors.New(errno.InvalidParam, "endsAt must be after startsAt")
	}

	dc := &deal.DiscountCode{
		Code:        code,
		Kind:        req.Kind,
		AmountOff:   req.AmountOff,
		PercentOff:  req.PercentOff,
		MaxDiscount: req.MaxDiscount,
		MinSpend:    req.MinSpend,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		UsageLimit:  req.UsageLimit,
		Active:      true,
	}
	if req.VenueID != "" {
		vid, err := mongox.ObjectID(req.VenueID)
		if err != nil {
			return nil, errors.New(errno.InvalidParam, "invalid venueId")
		}
		dc.VenueID = vid
	}
	if err := s.codes.Insert(ctx, dc); err != nil {
		if mongox.IsDuplicateKey(err) {
			return nil, errors.New(errno.DealCodeTaken, "discount code already exists")
		}
		return nil, err
	}
	return dc, nil
}

func (s *Service) List(ctx context.Context, page, size int64) ([]*deal.DiscountCode, int64, error) {
	return s.codes.FindPage(ctx, page, size)
}

type Quote struct {
	Code           string `json:"code"`
	OriginalAmount int64  `json:"originalAmount"`
	DiscountAmount int64  `json:"discountAmount"`
	FinalAmount    int64  `json:"finalAmount"`
}

// Validate prices amount against code for a purchase at venueID. An empty
// venueID skips the venue restriction.
func (s *Service) Validate(ctx context.Context, code string, amount int64, venueID bson.ObjectID) (*Quote, error) {
	code = NormalizeCode(code)
	dc, err := s.codes.FindOneByCode(ctx, code)
	if stderrors.Is(err, deal.ErrNotFound) {
		return nil, errors.New(errno.DealNotFound, "discount code not found")
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case !dc.Active:
		return nil, errors.New(errno.DealNotFound, "discount code not found")
	case !dc.StartsAt.IsZero() && now.Before(dc.StartsAt):
		return nil, errors.New(errno.DealExpired, "discount code is not active yet")
	case !dc.EndsAt.IsZero() && !now.Before(dc.EndsAt):
		return nil, errors.New(errno.DealExpired, "discount code has expired")
	case dc.UsageLimit > 0 && int64(len(dc.Redemptions)) >= dc.UsageLimit:
		return nil, errors.New(errno.DealExhausted, "discount code usage limit reached")
	case amount < dc.MinSpend:
		return nil, errors.New(errno.DealMinSpend, "order does not reach the minimum spend")
	case !dc.VenueID.IsZero() && !venueID.IsZero() && dc.VenueID != venueID:
		return nil, errors.New(errno.DealNotFound, "discount code not valid for this venue")
	}

	discount := Discount(dc, amount)
	return &Quote{
		Code:           dc.Code,
		OriginalAmount: amount,
		DiscountAmount: discount,
		FinalAmount:    amount - discount,
	}, nil
}

// Redeem records paymentIntentID against code. Repeated calls are no-ops.
func (s *Service) Redeem(ctx context.Context, code, paymentIntentID string) error {
	err := s.codes.AddRedemption(ctx, NormalizeCode(code), paymentIntentID)
	if stderrors.Is(err, deal.ErrNotFound) {
		logx.WithContext(ctx).Infow("redeeming unknown discount code", logx.Field("code", code))
		return nil
	}
	return err
}

// Discount is never negative nor larger than amount.
func Discount(dc *deal.DiscountCode, amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	switch dc.Kind {
	case deal.KindCash:
		if dc.AmountOff < 0 {
			return 0
		}
		return min(dc.AmountOff, amount)
	case deal.KindPercent:
		if dc.PercentOff <= 0 {
			return 0
		}
		off := amount * dc.PercentOff / 100
		if dc.MaxDiscount > 0 && off > dc.MaxDiscount {
			off = dc.MaxDiscount
		}
		return min(off, amount)
	default:
		return 0
	}
}

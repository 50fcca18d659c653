package affiliate

import (
	"context"
	stderrors "errors"
	"strings"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/dal/affiliate"
	"VenueHub/app/dal/mongox"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultCommissionPercent = 10

type Service struct {
	affiliates  affiliate.AffiliateModel
	commissions affiliate.CommissionModel
	kv          *redis.Redis
	percent     int64
	newCode     func() string
}

func NewService(affiliates affiliate.AffiliateModel, commissions affiliate.CommissionModel, kv *redis.Redis, percent int64) *Service {
	if percent <= 0 || percent > 100 {
		percent = DefaultCommissionPercent
	}
	return &Service{
		affiliates:  affiliates,
		commissions: commissions,
		kv:          kv,
		percent:     percent,
		newCode: func() string {
			return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		},
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) CreateAffiliate(ctx context.Context, userID string) (*affiliate.Affiliate, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	a := &affiliate.Affiliate{UserID: uid, Code: s.newCode(), CommissionPercent: s.percent}
	if err := s.affiliates.Insert(ctx, a); err != nil {
		if mongox.IsDuplicateKey(err) {
			return nil, errors.New(errno.AffiliateExists, "already an affiliate")
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*affiliate.Affiliate, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	a, err := s.affiliates.FindOneByUser(ctx, uid)
	if stderrors.Is(err, affiliate.ErrNotFound) {
		return nil, errors.New(errno.AffiliateNotFound, "not an affiliate")
	}
	return a, err
}

// TrackClick counts one click per visitor and code within the dedupe
// window. It reports whether this click was counted.
func (s *Service) TrackClick(ctx context.Context, code, visitor string) (bool, error) {
	code = NormalizeCode(code)
	if _, err := s.affiliates.FindOneByCode(ctx, code); err != nil {
		if stderrors.Is(err, affiliate.ErrNotFound) {
			return false, errors.New(errno.AffiliateNotFound, "unknown affiliate code")
		}
		return false, err
	}
	first, err := s.kv.SetnxExCtx(ctx, biz.ClickDedupePrefix+code+":"+visitor, "1", int(biz.ClickDedupeTTL.Seconds()))
	if err != nil {
		return false, err
	}
	if !first {
		return false, nil
	}
	if err := s.affiliates.IncClicks(ctx, code); err != nil {
		return false, err
	}
	return true, nil
}

// Referrer resolves code to the affiliate who should earn commission on
// buyerID's purchase. Unknown codes and self-referrals yield nil.
func (s *Service) Referrer(ctx context.Context, code string, buyerID bson.ObjectID) (*affiliate.Affiliate, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, nil
	}
	a, err := s.affiliates.FindOneByCode(ctx, code)
	if stderrors.Is(err, affiliate.ErrNotFound) {
		logx.WithContext(ctx).Infow("ignoring unknown affiliate code", logx.Field("code", code))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !buyerID.IsZero() && a.UserID == buyerID {
		return nil, nil
	}
	return a, nil
}

// RecordCommission credits the affiliate once per payment intent.
func (s *Service) RecordCommission(ctx context.Context, affiliateUserID bson.ObjectID, paymentIntentID, orderNo string, paidAmount int64) error {
	a, err := s.affiliates.FindOneByUser(ctx, affiliateUserID)
	if stderrors.Is(err, affiliate.ErrNotFound) {
		logx.WithContext(ctx).Infow("commission for missing affiliate skipped",
			logx.Field("affiliateUserId", affiliateUserID.Hex()), logx.Field("paymentIntentId", paymentIntentID))
		return nil
	}
	if err != nil {
		return err
	}
	return s.commissions.Upsert(ctx, &affiliate.Commission{
		AffiliateUserID: affiliateUserID,
		PaymentIntentID: paymentIntentID,
		OrderNo:         orderNo,
		AmountCents:     Commission(paidAmount, a.CommissionPercent),
	})
}

func (s *Service) ListCommissions(ctx context.Context, userID string, page, size int64) ([]*affiliate.Commission, int64, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, 0, errors.New(errno.InvalidToken, "invalid caller")
	}
	return s.commissions.FindPageByAffiliate(ctx, uid, page, size)
}

// Commission rounds down to whole minor units.
func Commission(paidAmount, percent int64) int64 {
	if paidAmount <= 0 || percent <= 0 {
		return 0
	}
	return paidAmount * percent / 100
}

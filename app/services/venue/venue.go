package venue

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/dal/mongox"
	"VenueHub/app/dal/venue"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

// Actor is the authenticated caller of a management operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == biz.RoleAdmin
}

type Service struct {
	venues venue.VenueModel
}

func NewService(venues venue.VenueModel) *Service {
	return &Service{venues: venues}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

type VenueReq struct {
	Name        string
	Slug        string
	City        string
	Address     string
	Description string
}

func (s *Service) Create(ctx context.Context, actor Actor, req VenueReq) (*venue.Venue, error) {
	owner, err := mongox.ObjectID(actor.UserID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	v := &venue.Venue{OwnerID: owner}
	if err := apply(v, req); err != nil {
		return nil, err
	}
	if err := s.venues.Insert(ctx, v); err != nil {
		if mongox.IsDuplicateKey(err) {
			return nil, errors.New(errno.VenueSlugTaken, "venue slug already taken")
		}
		return nil, err
	}
	logx.WithContext(ctx).Infow("venue created", logx.Field("venueId", v.ID.Hex()), logx.Field("slug", v.Slug))
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*venue.Venue, error) {
	v, err := s.venues.FindOne(ctx, id)
	if stderrors.Is(err, venue.ErrNotFound) || stderrors.Is(err, venue.ErrInvalidObjectId) {
		return nil, errors.New(errno.VenueNotFound, "venue not found")
	}
	return v, err
}

func (s *Service) List(ctx context.Context, city string, page, size int64) ([]*venue.Venue, int64, error) {
	return s.venues.FindPage(ctx, strings.TrimSpace(city), page, size)
}

// Manageable loads the venue and checks actor may change it: admins may
// change any venue, owners only their own.
func (s *Service) Manageable(ctx context.Context, id string, actor Actor) (*venue.Venue, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && v.OwnerID.Hex() != actor.UserID {
		return nil, errors.New(errno.Forbidden, "not the owner of this venue")
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id string, req VenueReq) (*venue.Venue, error) {
	v, err := s.Manageable(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := apply(v, req); err != nil {
		return nil, err
	}
	if err := s.venues.Update(ctx, v); err != nil {
		if mongox.IsDuplicateKey(err) {
			return nil, errors.New(errno.VenueSlugTaken, "venue slug already taken")
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.Manageable(ctx, id, actor); err != nil {
		return err
	}
	n, err := s.venues.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New(errno.VenueNotFound, "venue not found")
	}
	return nil
}

func apply(v *venue.Venue, req VenueReq) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errors.New(errno.InvalidParam, "name is required")
	}
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return errors.New(errno.InvalidParam, "slug is required")
	}
	v.Name = name
	v.Slug = slug
	v.City = strings.TrimSpace(req.City)
	v.Address = strings.TrimSpace(req.Address)
	v.Description = strings.TrimSpace(req.Description)
	return nil
}

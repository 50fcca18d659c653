package activity

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/storage"
	"VenueHub/app/dal/activity"
	"VenueHub/app/dal/mongox"
	userdal "VenueHub/app/dal/user"
	venuedal "VenueHub/app/dal/venue"
	venuesvc "VenueHub/app/services/venue"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const maxMediaBytes = 10 << 20

type Service struct {
	activities activity.ActivityModel
	users      userdal.UserModel
	venues     *venuesvc.Service
	media      storage.Uploader
}

func NewService(activities activity.ActivityModel, users userdal.UserModel, venues *venuesvc.Service, media storage.Uploader) *Service {
	return &Service{activities: activities, users: users, venues: venues, media: media}
}

type ActivityReq struct {
	ParentID    string
	Title       string
	Description string
	Category    string
	StartTime   time.Time
	EndTime     time.Time
	Currency    string
	Status      string
}

type ScheduleReq struct {
	StartsAt   time.Time
	EndsAt     time.Time
	Capacity   int
	PriceCents int64
}

// Creator is the public part of the user that created an activity.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Detail is an activity with its references resolved.
type Detail struct {
	*activity.Activity
	Creator  *Creator             `json:"creator,omitempty"`
	Venue    *venuedal.Venue      `json:"venue,omitempty"`
	Siblings []*activity.Activity `json:"siblings"`
}

func (s *Service) Get(ctx context.Context, id string) (*activity.Activity, error) {
	a, err := s.activities.FindOne(ctx, id)
	if stderrors.Is(err, activity.ErrNotFound) || stderrors.Is(err, activity.ErrInvalidObjectId) {
		return nil, errors.New(errno.ActivityNotFound, "activity not found")
	}
	return a, err
}

// GetByID returns the activity populated with its creator, venue and the
// other activities sharing its parent ordered by start time.
func (s *Service) GetByID(ctx context.Context, id string) (*Detail, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Activity: a, Siblings: []*activity.Activity{}}

	if !a.CreatorID.IsZero() {
		u, err := s.users.FindOne(ctx, a.CreatorID.Hex())
		switch {
		case err == nil:
			d.Creator = &Creator{ID: u.ID.Hex(), Name: u.Name}
		case stderrors.Is(err, userdal.ErrNotFound):
			logx.WithContext(ctx).Infow("activity creator missing", logx.Field("activityId", id))
		default:
			return nil, err
		}
	}

	v, err := s.venues.Get(ctx, a.VenueID.Hex())
	switch {
	case err == nil:
		d.Venue = v
	case isCode(err, errno.VenueNotFound):
	default:
		return nil, err
	}

	if !a.ParentID.IsZero() {
		siblings, err := s.activities.FindSiblings(ctx, a.ParentID, a.ID)
		if err != nil {
			return nil, err
		}
		if siblings != nil {
			d.Siblings = siblings
		}
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, venueID string, page, size int64) ([]*activity.Activity, int64, error) {
	vid, err := mongox.ObjectID(venueID)
	if err != nil {
		return nil, 0, errors.New(errno.VenueNotFound, "venue not found")
	}
	return s.activities.FindPageByVenue(ctx, vid, page, size)
}

func (s *Service) Create(ctx context.Context, actor venuesvc.Actor, venueID string, req ActivityReq) (*activity.Activity, error) {
	v, err := s.venues.Manageable(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}
	creator, err := mongox.ObjectID(actor.UserID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	a := &activity.Activity{VenueID: v.ID, CreatorID: creator, Status: activity.StatusDraft}
	if req.ParentID != "" {
		parent, err := s.Get(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.VenueID != v.ID {
			return nil, errors.New(errno.InvalidParam, "parent activity belongs to another venue")
		}
		a.ParentID = parent.ID
	}
	if err := applyActivity(a, req); err != nil {
		return nil, err
	}
	if err := s.activities.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, actor venuesvc.Actor, id string, req ActivityReq) (*activity.Activity, error) {
	a, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyActivity(a, req); err != nil {
		return nil, err
	}
	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, actor venuesvc.Actor, id string) error {
	if _, err := s.manageable(ctx, actor, id); err != nil {
		return err
	}
	n, err := s.activities.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New(errno.ActivityNotFound, "activity not found")
	}
	return nil
}

func (s *Service) AddSchedule(ctx context.Context, actor venuesvc.Actor, id string, req ScheduleReq) (*activity.Schedule, error) {
	a, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.StartsAt.IsZero() || !req.EndsAt.After(req.StartsAt) {
		return nil, errors.New(errno.InvalidParam, "schedule needs startsAt before endsAt")
	}
	if req.Capacity <= 0 || req.PriceCents < 0 {
		return nil, errors.New(errno.InvalidParam, "capacity must be positive and price non-negative")
	}
	sched := activity.Schedule{
		ID:         bson.NewObjectID(),
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Capacity:   req.Capacity,
		PriceCents: req.PriceCents,
	}
	if err := s.activities.PushSchedule(ctx, a.ID, sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Service) RemoveSchedule(ctx context.Context, actor venuesvc.Actor, id, scheduleID string) error {
	a, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	sid, err := mongox.ObjectID(scheduleID)
	if err != nil {
		return errors.New(errno.ScheduleNotFound, "schedule not found")
	}
	removed, err := s.activities.PullSchedule(ctx, a.ID, sid)
	if err != nil {
		return err
	}
	if !removed {
		return errors.New(errno.ScheduleNotFound, "schedule not found")
	}
	return nil
}

// AttachMedia uploads body to object storage and appends it to the
// activity's media list.
func (s *Service) AttachMedia(ctx context.Context, actor venuesvc.Actor, id, filename, contentType string, size int64, body io.Reader) (*activity.Media, error) {
	a, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if size <= 0 || size > maxMediaBytes {
		return nil, errors.New(errno.InvalidParam, "media must be between 1 byte and 10MB")
	}
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return nil, errors.New(errno.InvalidParam, "only image and video uploads are accepted")
	}

	key := fmt.Sprintf("activities/%s/%s%s", a.ID.Hex(), uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.media.Put(ctx, key, body, size, contentType)
	if err != nil {
		return nil, err
	}
	m := activity.Media{Key: key, URL: url, ContentType: contentType, UploadedAt: time.Now()}
	if err := s.activities.PushMedia(ctx, a.ID, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) manageable(ctx context.Context, actor venuesvc.Actor, id string) (*activity.Activity, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.venues.Manageable(ctx, a.VenueID.Hex(), actor); err != nil {
		return nil, err
	}
	return a, nil
}

func applyActivity(a *activity.Activity, req ActivityReq) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return errors.New(errno.InvalidParam, "title is required")
	}
	if req.StartTime.IsZero() {
		return errors.New(errno.InvalidParam, "startTime is required")
	}
	if !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		return errors.New(errno.InvalidParam, "endTime must not precede startTime")
	}
	switch req.Status {
	case "":
	case activity.StatusDraft, activity.StatusPublished, activity.StatusCancelled:
		a.Status = req.Status
	default:
		return errors.New(errno.InvalidParam, "unknown status")
	}
	a.Title = title
	a.Description = strings.TrimSpace(req.Description)
	a.Category = strings.TrimSpace(req.Category)
	a.StartTime = req.StartTime
	a.EndTime = req.EndTime
	a.Currency = strings.ToLower(strings.TrimSpace(req.Currency))
	if a.Currency == "" {
		a.Currency = "usd"
	}
	return nil
}

func isCode(err error, code int) bool {
	var cm *errors.CodeMsg
	return stderrors.As(err, &cm) && cm.Code == code
}

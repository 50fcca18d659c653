package notify

import (
	"context"
	"encoding/json"
	"time"

	"VenueHub/app/common/consts/biz"

	"github.com/redis/go-redis/v9"
)

// RoomEvent is what chat and dashboard clients subscribed to a venue room
// receive.
type RoomEvent struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

type Publisher interface {
	PublishRoom(ctx context.Context, venueID string, ev RoomEvent) error
}

type RoomPublisher struct {
	rdb redis.UniversalClient
}

func NewRoomPublisher(rdb redis.UniversalClient) *RoomPublisher {
	return &RoomPublisher{rdb: rdb}
}

func RoomChannel(venueID string) string {
	return biz.RoomChannelPrefix + venueID
}

func (p *RoomPublisher) PublishRoom(ctx context.Context, venueID string, ev RoomEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, RoomChannel(venueID), b).Err()
}

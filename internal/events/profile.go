// Package events carries change notifications between requests and services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Profile change kinds
const (
	ContactAdded = "contact_added"
	WalletLinked = "wallet_linked"
)

// ProfileEvent tells a session its profile document changed.
type ProfileEvent struct {
	UID  string `json:"uid"`
	Kind string `json:"kind"`
	At   int64  `json:"at"`
}

// ProfileBus fans profile changes out over redis pub/sub.
type ProfileBus struct {
	rdb *redis.Client
}

func NewProfileBus(rdb *redis.Client) *ProfileBus {
	return &ProfileBus{rdb: rdb}
}

func profileChannel(uid string) string {
	return "profile:" + uid + ":changed"
}

// Publish announces a change of uid's profile.
func (b *ProfileBus) Publish(ctx context.Context, uid, kind string) error {
	payload, err := json.Marshal(ProfileEvent{UID: uid, Kind: kind, At: time.Now().UnixMilli()})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, profileChannel(uid), payload).Err()
}

// Subscribe delivers uid's profile events until ctx ends. The subscription is
// active when Subscribe returns.
func (b *ProfileBus) Subscribe(ctx context.Context, uid string) (<-chan ProfileEvent, error) {
	ps := b.rdb.Subscribe(ctx, profileChannel(uid))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to profile %s: %w", uid, err)
	}

	out := make(chan ProfileEvent)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ProfileEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logrus.WithField("channel", msg.Channel).Warn("dropping malformed profile event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

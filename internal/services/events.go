package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const presenceTTL = 24 * time.Hour

// busEnvelope is the wire format published on the redis channel. Every
// instance subscribes and delivers to its locally connected receivers.
type busEnvelope struct {
	UserID string  `json:"user_id"`
	Event  WSEvent `json:"event"`
}

// EventBus fans real-time events out across instances over redis pub/sub
// and tracks cluster-wide presence. Delivery is best-effort.
type EventBus struct {
	rdb     *redis.Client
	channel string
	hub     *WSHub
}

// NewEventBus creates a new event bus
func NewEventBus(rdb *redis.Client, channel string, hub *WSHub) *EventBus {
	return &EventBus{rdb: rdb, channel: channel, hub: hub}
}

// Publish sends an event to a user's room, wherever they are connected
func (b *EventBus) Publish(ctx context.Context, userID string, eventType string, payload any) error {
	event, err := NewWSEvent(eventType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(busEnvelope{UserID: userID, Event: event})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Run subscribes to the event channel and delivers incoming events to
// locally connected users. It returns when ctx is cancelled.
func (b *EventBus) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env busEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Error().Err(err).Msg("Failed to decode bus envelope")
				continue
			}
			if !b.hub.IsOnline(env.UserID) {
				continue
			}
			if err := b.hub.SendToUser(env.UserID, env.Event); err != nil {
				log.Error().Err(err).Str("user_id", env.UserID).Msg("Failed to deliver event")
			}
		}
	}
}

func presenceKey(userID string) string {
	return "online:" + userID
}

// SetOnline marks a user online cluster-wide
func (b *EventBus) SetOnline(ctx context.Context, userID string) {
	if err := b.rdb.Set(ctx, presenceKey(userID), "1", presenceTTL).Err(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to set presence")
	}
}

// SetOffline clears a user's cluster-wide presence
func (b *EventBus) SetOffline(ctx context.Context, userID string) {
	if err := b.rdb.Del(ctx, presenceKey(userID)).Err(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to clear presence")
	}
}

// IsOnline reports whether a user is connected to any instance
func (b *EventBus) IsOnline(ctx context.Context, userID string) bool {
	n, err := b.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to check presence")
		return false
	}
	return n > 0
}

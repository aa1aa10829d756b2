package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"bookvault/models"
)

// EventChannel is the Redis pub/sub channel external indexers subscribe to.
const EventChannel = "escrow.events"

// RedisPublisher pushes events onto a Redis pub/sub channel.
type RedisPublisher struct {
	Client *redis.Client
	Logger *zap.Logger
}

func (p *RedisPublisher) Publish(ev models.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.Logger.Error("failed to marshal event", zap.String("eventId", ev.ID), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		p.Logger.Error("failed to publish event",
			zap.String("eventId", ev.ID),
			zap.String("type", ev.Type),
			zap.Error(err))
	}
}

// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"bookvault/config"
)

// EventsClient is the Redis client used for event publication.
var EventsClient *redis.Client

// InitRedis initializes the Redis client for event publication.
func InitRedis() {
	EventsClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := EventsClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Events): %v", err)
	}
}

// GetEventsClient returns the Redis client for event publication.
func GetEventsClient() *redis.Client {
	if EventsClient == nil {
		InitRedis()
	}
	return EventsClient
}

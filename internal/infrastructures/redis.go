package infrastructures

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects the client backing the rate limiter and verifies
// the connection up front.
func NewRedisClient(cfg *AppConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.REDIS_ADDRESS,
		Password: cfg.REDIS_PASSWORD,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect redis: %v", err)
	}

	return client
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/laced-shop/laced-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Init initializes the Redis connection. Redis is optional: when it is
// not initialized the dedup helpers degrade to no-ops and the database
// idempotency guard carries the load alone.
func Init(cfg *Config) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// MarkEventProcessed records a webhook event id so repeat deliveries can
// be acknowledged without touching the database.
func MarkEventProcessed(ctx context.Context, eventID string, expiry time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("webhook:processed:%s", eventID)
	if err := client.Set(ctx, key, "done", expiry).Err(); err != nil {
		logger.Error("Failed to mark webhook event processed", err, map[string]interface{}{
			"event_id": eventID,
		})
		return err
	}
	return nil
}

// IsEventProcessed checks the fast-path dedup cache for a webhook event
// id. A miss is not authoritative; callers still consult the order
// store's uniqueness guard.
func IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("webhook:processed:%s", eventID)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check webhook dedup cache", err, map[string]interface{}{
			"event_id": eventID,
		})
		return false, err
	}

	return val == "done", nil
}

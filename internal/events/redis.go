package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// RedisStore appends game events to a Redis stream.
type RedisStore struct {
	client *redis.Client
	stream string
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	stream := cfg.Stream
	if stream == "" {
		stream = "cinch:events"
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		stream: stream,
	}
}

// Ping verifies connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Publish(ctx context.Context, ev GameEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"game":  ev.GameID,
			"type":  ev.Type,
			"event": payload,
		},
	}).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

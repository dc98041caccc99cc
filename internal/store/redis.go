package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/battleship/internal/game"
)

const gameKeyPrefix = "game:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps games as JSON under "game:<id>". A zero ttl keeps them
// forever; otherwise every Save refreshes the expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

// ConnectRedis opens a client and checks it with PING.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *redisStore) Save(ctx context.Context, g *game.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}
	if err := s.client.Set(ctx, gameKeyPrefix+g.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*game.Game, error) {
	data, err := s.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &g, nil
}

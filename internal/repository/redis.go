package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const scanCount = 100

// RedisStore mirrors the state of one game under the "game:<id>:" prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, gameID string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "game:" + gameID + ":",
	}
}

func (that *RedisStore) Save(ctx context.Context, key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return err
	}

	if err = that.client.Set(ctx, that.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (that *RedisStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	response, err := that.client.Get(ctx, that.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err = decode(response, dst); err != nil {
		return false, err
	}

	return true, nil
}

func (that *RedisStore) ClearAll(ctx context.Context) error {
	iter := that.client.Scan(ctx, 0, that.prefix+"*", scanCount).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := that.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}

	return nil
}

const gamesKey = "games"

// RedisGames hands out per-game RedisStores and tracks known game ids.
type RedisGames struct {
	client *redis.Client
}

func NewRedisGames(client *redis.Client) *RedisGames {
	return &RedisGames{
		client: client,
	}
}

func (that *RedisGames) Store(gameID string) *RedisStore {
	return NewRedisStore(that.client, gameID)
}

func (that *RedisGames) Register(ctx context.Context, gameID string) error {
	if err := that.client.SAdd(ctx, gamesKey, gameID).Err(); err != nil {
		return fmt.Errorf("failed to register game: %w", err)
	}

	return nil
}

func (that *RedisGames) Exists(ctx context.Context, gameID string) (bool, error) {
	ok, err := that.client.SIsMember(ctx, gamesKey, gameID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check game: %w", err)
	}

	return ok, nil
}

// NewRedisClient connects to Redis at addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

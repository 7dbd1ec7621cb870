package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
)

const (
	redisTokenKey = "wageflow:session:token"
	redisRoleKey  = "wageflow:session:role"
)

// RedisStorage keeps the session in Redis. Intended for shared-terminal
// installs where the client machine itself is stateless.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage constructs a RedisStorage on client.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Load fetches token and role. Missing keys mean logged out.
func (r *RedisStorage) Load(ctx context.Context) (Record, error) {
	token, err := r.client.Get(ctx, redisTokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, nil
		}
		return Record{}, err
	}
	role, err := r.client.Get(ctx, redisRoleKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Record{}, err
	}
	return Record{Token: token, Role: payroll.Role(role)}, nil
}

// Save writes token and role under their fixed keys.
func (r *RedisStorage) Save(ctx context.Context, rec Record) error {
	if err := r.client.Set(ctx, redisTokenKey, rec.Token, 0).Err(); err != nil {
		return err
	}
	return r.client.Set(ctx, redisRoleKey, string(rec.Role), 0).Err()
}

// Clear deletes both keys together.
func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, redisTokenKey, redisRoleKey).Err()
}

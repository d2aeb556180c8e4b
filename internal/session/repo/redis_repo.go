package repo

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisRepo keeps the token in redis, for kiosk setups where several
// client processes share one session.
type RedisRepo struct {
	rdb *redis.Client
	key string
}

func NewRedisRepo(rdb *redis.Client) *RedisRepo {
	return &RedisRepo{rdb: rdb, key: "gada:" + DefaultKey}
}

func (r *RedisRepo) Load(ctx context.Context) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisRepo) Save(ctx context.Context, token string) error {
	return r.rdb.Set(ctx, r.key, token, 0).Err()
}

func (r *RedisRepo) Delete(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

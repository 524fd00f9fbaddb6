package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RedisRevocationStore shares revocations across instances so a logout
// on one node invalidates the token everywhere. Keys carry the access
// token TTL; a revocation entry outliving its token is pointless.
type RedisRevocationStore struct {
	redisdb *redis.Client
	ttl     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisRevocationStore(cfg RedisConfig, ttl time.Duration) *RedisRevocationStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &RedisRevocationStore{redisdb: redisdb, ttl: ttl}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, token string) error {
	return s.redisdb.Set(ctx, revokedKeyPrefix+token, "1", s.ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.redisdb.Exists(ctx, revokedKeyPrefix+token).Result()

	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (s *RedisRevocationStore) Clear(ctx context.Context) error {
	iter := s.redisdb.Scan(ctx, 0, revokedKeyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		if err := s.redisdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

// Ping checks redis connectivity at startup.
func (s *RedisRevocationStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisRevocationStore) Close() error {
	return s.redisdb.Close()
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisConfig holds connection settings for a Redis-backed session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// URL, when set, takes precedence over the individual fields.
	URL string
}

// DialRedis connects to Redis and verifies the connection with a ping.
func DialRedis(cfg RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis URL: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisStore persists the session in Redis under a single key. It suits
// server-side embeddings of the client where several processes share one
// platform session.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store over an existing Redis client. key is the
// full Redis key the credential is stored under.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load() (*Credential, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session from redis: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		// Same contract as the file store: corrupt data is purged, not returned.
		if delErr := s.client.Del(ctx, s.key).Err(); delErr != nil {
			return nil, fmt.Errorf("purge corrupt session key: %w", delErr)
		}
		return nil, nil
	}
	if cred.AccessToken == "" || cred.RefreshToken == "" {
		if delErr := s.client.Del(ctx, s.key).Err(); delErr != nil {
			return nil, fmt.Errorf("purge incomplete session key: %w", delErr)
		}
		return nil, nil
	}
	return &cred, nil
}

func (s *RedisStore) Save(cred *Credential) error {
	if cred == nil {
		return errNilCredential
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}
	return nil
}

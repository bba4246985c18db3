package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisConnectAttempts = 30

// RedisMirror stores mirrored values as plain redis strings.
type RedisMirror struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// NewRedisMirror accepts either a redis:// URL or a bare host:port address.
func NewRedisMirror(addr string, log logrus.FieldLogger) *RedisMirror {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
		}
	}
	return &RedisMirror{client: redis.NewClient(opts), log: log}
}

// Initialize pings redis with exponential backoff until it answers or ctx ends.
func (r *RedisMirror) Initialize(ctx context.Context) error {
	for i := 0; i < redisConnectAttempts; i++ {
		if r.Ping(ctx) {
			r.log.WithField("attempt", i+1).Info("redis mirror connected")
			return nil
		}

		backoff := time.Duration(1000*(1<<uint(i))) * time.Millisecond
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		r.log.WithField("backoff", backoff).Warn("redis not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.Errorf("redis not reachable after %d attempts", redisConnectAttempts)
}

func (r *RedisMirror) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMirrorMiss
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis GET %q", key)
	}
	return val, nil
}

func (r *RedisMirror) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %q", key)
	}
	return nil
}

func (r *RedisMirror) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		r.log.WithError(err).Debug("redis ping failed")
		return false
	}
	return true
}

func (r *RedisMirror) Close() error { return r.client.Close() }

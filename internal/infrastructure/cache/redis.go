// Package cache wraps Redis for two jobs: short-TTL caching of match
// previews for the web form, and leases that keep scheduled jobs from
// overlapping themselves. Redis being down disables both quietly: the
// cache bypasses and leases always grant.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"hirepulse/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Redis struct {
	client *redis.Client
	log    *zap.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, caching and job leases disabled", zap.Error(err))
		_ = client.Close()
		return &Redis{client: nil, log: log}
	}

	return &Redis{client: client, log: log}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.log == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log.Warn("redis became unavailable, bypassing cache", zap.Error(err))
	}
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// AcquireLease grabs a named lease with SET NX. It returns true when the
// caller may proceed. Without Redis the lease always grants, leaving the
// in-process guard as the only overlap protection.
func (r *Redis) AcquireLease(ctx context.Context, name string, ttl time.Duration) bool {
	if r.isUnavailable() {
		return true
	}
	ok, err := r.client.SetNX(ctx, "lease:"+name, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return true
	}
	return ok
}

func (r *Redis) ReleaseLease(ctx context.Context, name string) {
	if r.isUnavailable() {
		return
	}
	if err := r.client.Del(ctx, "lease:"+name).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

// Package redis wraps the go-redis client so the progression store, its
// tests and the repair script connect the same way.
package redis

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Options tunes the connection pool. Zero values keep the go-redis defaults.
type Options struct {
	PoolSize     int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UseTLS       bool
}

// NewClient creates a client for a single instance. addr is either host:port
// or a redis:// URL carrying credentials and a database number. Redis
// connects lazily so nothing is dialed here.
func NewClient(addr string, opts *Options) (Client, error) {
	if addr == "" {
		return nil, errors.InvalidArgument("redis: address is required")
	}

	redisOpts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "redis: invalid URL")
		}
		redisOpts = parsed
	}

	if opts != nil {
		redisOpts.PoolSize = opts.PoolSize
		redisOpts.MaxRetries = opts.MaxRetries
		redisOpts.DialTimeout = opts.DialTimeout
		redisOpts.ReadTimeout = opts.ReadTimeout
		redisOpts.WriteTimeout = opts.WriteTimeout
		if opts.UseTLS && redisOpts.TLSConfig == nil {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}

	return redis.NewClient(redisOpts), nil
}

// Connect creates a client and checks the server answers a PING. An
// unreachable server is reported as Unavailable.
func Connect(ctx context.Context, addr string, opts *Options) (Client, error) {
	client, err := NewClient(addr, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable").
			WithMeta("addr", addr)
	}
	return client, nil
}

package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories depend on this package
// rather than on go-redis directly
type Client interface {
	redis.UniversalClient
}

// ScanKeys calls fn for every key matching pattern. Iteration stops at the
// first error fn returns.
func ScanKeys(ctx context.Context, client Client, pattern string, fn func(key string) error) error {
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}

package progression

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-dungeon/internal/redis"
)

const (
	// Key pattern: progression:{profile_id}
	keyPrefix = "progression:"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a Redis-backed repository. Records never expire.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}

	data, err := r.client.Get(ctx, buildKey(input.ProfileID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no progression record for profile %s", input.ProfileID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read progression record")
	}

	return &GetOutput{Data: data}, nil
}

func (r *redisRepository) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	if err := r.client.Set(ctx, buildKey(input.ProfileID), input.Data, 0).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store progression record")
	}

	return &PutOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}

	n, err := r.client.Del(ctx, buildKey(input.ProfileID)).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete progression record")
	}

	return &DeleteOutput{Existed: n > 0}, nil
}

func buildKey(profileID string) string {
	return keyPrefix + profileID
}

package document

import (
	"context"
	"strconv"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	keyPrefix        = "sheet:"
	updatedAtSuffix  = ":updated_at"
	errClientMissing = "redis client is required"
)

// RedisConfig configures the redis backend
type RedisConfig struct {
	Client redisclient.Client
	Key    string
}

// Validate checks the configuration
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument(errClientMissing)
	}
	return nil
}

type redisRepository struct {
	client       redisclient.Client
	key          string
	updatedAtKey string
}

// NewRedisRepository creates a redis backed document repository storing the
// document under sheet:<key>
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("redis config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultKey
	}

	return &redisRepository{
		client:       cfg.Client,
		key:          keyPrefix + key,
		updatedAtKey: keyPrefix + key + updatedAtSuffix,
	}, nil
}

func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	values, err := r.client.MGet(ctx, r.key, r.updatedAtKey).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to load document").
			WithMeta("key", r.key)
	}

	data, ok := values[0].(string)
	if !ok {
		return &LoadOutput{}, nil
	}

	output := &LoadOutput{Data: data, Found: true}
	if stamp, ok := values[1].(string); ok {
		output.UpdatedAt, _ = strconv.ParseInt(stamp, 10, 64)
	}
	return output, nil
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.Data == "" {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key, input.Data, 0)
	pipe.Set(ctx, r.updatedAtKey, strconv.FormatInt(input.UpdatedAt, 10), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to save document").
			WithMeta("key", r.key)
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Clear(ctx context.Context, input *ClearInput) (*ClearOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	removed, err := r.client.Del(ctx, r.key, r.updatedAtKey).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to clear document").
			WithMeta("key", r.key)
	}

	return &ClearOutput{Existed: removed > 0}, nil
}

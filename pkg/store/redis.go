package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formkit/pkg/model"
)

// DefaultRedisKey is the list holding encoded schemas.
const DefaultRedisKey = "formkit:forms"

// RedisRepository keeps schemas in a Redis list, one JSON document per
// element, appended with RPUSH.
type RedisRepository struct {
	client redis.Cmdable
	key    string
}

var _ Repository = (*RedisRepository)(nil)

// NewRedisRepository stores under key, or DefaultRedisKey when key is empty.
func NewRedisRepository(client redis.Cmdable, key string) *RedisRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepository{client: client, key: key}
}

func (r *RedisRepository) Load(ctx context.Context) ([]model.FormSchema, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis load %s: %w", r.key, err)
	}
	schemas := make([]model.FormSchema, 0, len(items))
	for _, item := range items {
		schema, err := decodeSchema([]byte(item))
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

func (r *RedisRepository) Append(ctx context.Context, schema model.FormSchema) error {
	data, err := encodeSchema(schema)
	if err != nil {
		return err
	}
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("store: redis append %q: %w", schema.ID, err)
	}
	if logger.IsVerbose() {
		logger.Verbose("store: redis appended schema", schema.ID, "to", r.key)
	}
	return nil
}

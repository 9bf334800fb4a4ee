package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// DefaultRedisKey is the hash holding the ledger, one field per exercise.
const DefaultRedisKey = "practice:progress"

type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Load skips fields that do not decode rather than failing the whole ledger.
func (s *RedisStore) Load(ctx context.Context) (map[string]models.ProgressRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load progress hash: %w", err)
	}
	records := make(map[string]models.ProgressRecord, len(fields))
	for id, raw := range fields {
		var r models.ProgressRecord
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		r.ExerciseID = id
		records[id] = r
	}
	return records, nil
}

// Save rewrites the hash atomically.
func (s *RedisStore) Save(ctx context.Context, records map[string]models.ProgressRecord) error {
	values := make(map[string]interface{}, len(records))
	for id, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		values[id] = data
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	return err
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/webembed/coverframe/pkg/models"
)

// RedisRecordStore stores embed metadata as JSON values in Redis.
// Records have no expiry; the embed lifecycle defines no deletion path.
type RedisRecordStore struct {
	client *redis.Client
}

// NewRedisRecordStore creates a RedisRecordStore from an existing client.
func NewRedisRecordStore(client *redis.Client) *RedisRecordStore {
	return &RedisRecordStore{client: client}
}

func embedKey(id string) string {
	return "embed:" + id
}

// PutRecord writes the record under embed:<id>.
func (s *RedisRecordStore) PutRecord(ctx context.Context, rec *models.EmbedRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal embed record: %w", err)
	}

	if err := s.client.Set(ctx, embedKey(rec.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set embed record: %w", err)
	}

	return nil
}

// GetRecord retrieves an embed record by its public identifier.
func (s *RedisRecordStore) GetRecord(ctx context.Context, id string) (*models.EmbedRecord, error) {
	data, err := s.client.Get(ctx, embedKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrEmbedNotFound
		}
		return nil, fmt.Errorf("failed to get embed record: %w", err)
	}

	var rec models.EmbedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embed record: %w", err)
	}

	return &rec, nil
}

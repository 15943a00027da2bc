package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mpfm/model"
)

const redisOpTimeout = 5 * time.Second

// redisSidecarStore keeps sidecar records as JSON values under sidecar:<title>.
type redisSidecarStore struct {
	client *redis.Client
}

// NewRedisSidecarStore creates a store backed by the given Redis client.
func NewRedisSidecarStore(client *redis.Client) SidecarStore {
	return &redisSidecarStore{client: client}
}

// sidecarKey builds the Redis key for a track title.
func sidecarKey(title string) string {
	return fmt.Sprintf("sidecar:%s", title)
}

func (s *redisSidecarStore) Load(title string) (*model.TrackRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, sidecarKey(title)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
		}
		return nil, fmt.Errorf("failed to get sidecar for %s: %w", title, err)
	}

	rec := &model.TrackRecord{}
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("failed to decode sidecar for %s: %w", title, err)
	}
	return rec, nil
}

func (s *redisSidecarStore) Save(rec *model.TrackRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode sidecar for %s: %w", rec.Title, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	// Records have no natural expiry; they mirror the track files on disk.
	if err := s.client.Set(ctx, sidecarKey(rec.Title), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save sidecar for %s: %w", rec.Title, err)
	}
	return nil
}

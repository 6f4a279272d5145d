package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyhall/session-service/internal/models"
)

// ErrCacheMiss is returned when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// SnapshotCache keeps the latest read-only projection of each live session
// so pollers rendering the countdown don't have to hit the controller on
// every request. The cache is advisory: the controller remains the source
// of truth and entries expire on their own.
type SnapshotCache interface {
	Set(ctx context.Context, snapshot models.SessionSnapshot, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSnapshotCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisSnapshotCache(client *redis.Client, logger *slog.Logger) SnapshotCache {
	return &redisSnapshotCache{
		client: client,
		logger: logger,
	}
}

func snapshotKey(sessionID string) string {
	return "session:snapshot:" + sessionID
}

func (r *redisSnapshotCache) Set(ctx context.Context, snapshot models.SessionSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(snapshot.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

func (r *redisSnapshotCache) Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot models.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

func (r *redisSnapshotCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		r.logger.Warn("Failed to delete cached snapshot", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

// NoopSnapshotCache is used when Redis is not configured (tests, local runs)
type NoopSnapshotCache struct{}

func (NoopSnapshotCache) Set(ctx context.Context, snapshot models.SessionSnapshot, ttl time.Duration) error {
	return nil
}

func (NoopSnapshotCache) Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	return nil, ErrCacheMiss
}

func (NoopSnapshotCache) Delete(ctx context.Context, sessionID string) error {
	return nil
}

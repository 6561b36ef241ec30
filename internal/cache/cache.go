// Package cache implements the read-through cache over Redis. Reads fail
// open: any backend error is logged and treated as a miss so the caller
// falls back to the entity store. Writes and invalidations are best effort
// on the value but the invalidation call itself always runs before the
// mutating operation returns.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"operation"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses, including backend errors treated as misses",
		},
		[]string{"operation"},
	)

	cacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache keys invalidated",
		},
		[]string{"operation"},
	)
)

// Store is the parameterized read-through cache.
type Store struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewStore creates a cache store backed by the given Redis client.
func NewStore(client redis.UniversalClient, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// GetJSON loads the value at key into dest. It returns true only on a hit
// with a decodable value. Backend errors and corrupt entries count as misses.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "cache read failed, treating as miss",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		cacheMisses.WithLabelValues("get").Inc()
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.WarnContext(ctx, "cache entry corrupt, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		cacheMisses.WithLabelValues("get").Inc()
		return false
	}

	cacheHits.WithLabelValues("get").Inc()
	return true
}

// SetJSON stores value at key with the given TTL. Failures are logged only;
// the authoritative value already came from the entity store.
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "cache marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Delete removes the given keys. Invalidation is precise: callers list
// exactly the keys whose underlying query result changed.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
		return
	}
	cacheInvalidations.WithLabelValues("delete").Add(float64(len(keys)))
}

// DeleteByPrefix removes every key starting with prefix using SCAN, for bulk
// invalidation of parameterized keys when the parameter space itself changes.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) {
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.WarnContext(ctx, "cache scan failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache prefix invalidation failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
		return
	}
	cacheInvalidations.WithLabelValues("delete_by_prefix").Add(float64(len(keys)))
}

// Ping checks cache backend connectivity for health probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

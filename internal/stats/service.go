package stats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/redis"
)

const snapshotScope = "dashboard"

// Builder produces a fresh snapshot from the upstream sources. The refresh
// pipeline implements it; the service only falls back to it on cache miss.
type Builder interface {
	BuildSnapshot(ctx context.Context) (Snapshot, error)
}

// Service serves dashboard statistics cache-first: the interval refresher
// keeps the cache warm and request handlers rebuild only when it is cold.
type Service struct {
	cache   redis.SnapshotStore
	builder Builder
	ttl     time.Duration
	logg    *logger.Logger
}

func NewService(cache redis.SnapshotStore, builder Builder, ttl time.Duration, logg *logger.Logger) *Service {
	return &Service{
		cache:   cache,
		builder: builder,
		ttl:     ttl,
		logg:    logg,
	}
}

// Current returns the cached snapshot, rebuilding and re-caching when the
// cache misses. A corrupt cache entry is treated as a miss.
func (s *Service) Current(ctx context.Context) (Snapshot, error) {
	key := s.cache.SnapshotKey(snapshotScope)

	raw, err := s.cache.Get(ctx, key)
	if err == nil {
		var snap Snapshot
		if unmarshalErr := json.Unmarshal([]byte(raw), &snap); unmarshalErr == nil {
			return snap, nil
		}
		s.logg.Warn(ctx, "discarding unreadable cached snapshot")
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		logCtx := s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(logCtx, "snapshot cache read failed")
	}

	snap, err := s.builder.BuildSnapshot(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "building dashboard snapshot")
	}
	if err := s.Store(ctx, snap); err != nil {
		logCtx := s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(logCtx, "snapshot cache write failed")
	}
	return snap, nil
}

// Store caches a snapshot under the dashboard scope.
func (s *Service) Store(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding snapshot")
	}
	return s.cache.Set(ctx, s.cache.SnapshotKey(snapshotScope), payload, s.ttl)
}

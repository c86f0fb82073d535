package service

import (
	"context"

	"go.uber.org/zap"
)

// WarmStats summarizes a cache warm-up run.
type WarmStats struct {
	Total     int `json:"total"`
	Cached    int `json:"cached"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// Warm makes sure every place has a cached record for tags. Places are
// processed one at a time so the generation rate limit is respected.
// It stops early when ctx is cancelled.
func (s *LocationService) Warm(ctx context.Context, places []string, tags []string) WarmStats {
	stats := WarmStats{Total: len(places)}

	for _, place := range places {
		if ctx.Err() != nil {
			break
		}

		if _, ok := s.GetCachedLocationData(ctx, place, tags); ok {
			stats.Cached++
			continue
		}

		if _, err := s.GetLocationData(ctx, place, tags); err != nil {
			stats.Failed++
			s.logger.Warn("warming location failed", zap.String("place", place), zap.Error(err))
			continue
		}
		stats.Generated++
	}

	s.logger.Info("cache warm-up complete",
		zap.Int("total", stats.Total),
		zap.Int("cached", stats.Cached),
		zap.Int("generated", stats.Generated),
		zap.Int("failed", stats.Failed),
	)
	return stats
}

// WarmInBackground starts Warm on its own goroutine and returns at once. The
// run keeps ctx values but not its cancellation; Close stops it. It returns
// false without starting anything when a background run is already active.
func (s *LocationService) WarmInBackground(ctx context.Context, places []string, tags []string) bool {
	if !s.warming.CompareAndSwap(false, true) {
		return false
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	release := context.AfterFunc(s.stop, cancel)

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer s.warming.Store(false)
		defer release()
		defer cancel()
		s.Warm(ctx, places, tags)
	}()
	return true
}

// Warming reports whether a background warm-up is running.
func (s *LocationService) Warming() bool {
	return s.warming.Load()
}

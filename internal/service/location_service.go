// Package service contains the core business logic of the location pipeline.
// LocationService follows a "try cache first, then acquire" pattern:
//
//	Layer 1: Cache: look the normalized (place, tags) key up in the store
//	Layer 2: Acquire: run the content generator and the image resolver
//	         concurrently and merge the header image into the document
//
// Fresh records are written back to the cache in the background, so the
// caller never waits on the insert.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/fleveque/location-service/internal/metrics"
	"github.com/fleveque/location-service/internal/model"
	"github.com/fleveque/location-service/internal/storage"
)

const (
	tracerName        = "github.com/fleveque/location-service/internal/service"
	cacheWriteTimeout = 10 * time.Second
)

// Generator produces the structured document for a place, without a header
// image. *provider.ContentGenerator implements it.
type Generator interface {
	Generate(ctx context.Context, place string, tags []string) (*model.LocationRecord, error)
}

// ImageSource returns a header image URL for a place. It must never fail.
// *ImageResolver implements it.
type ImageSource interface {
	Resolve(ctx context.Context, query string) string
}

// Options tunes a LocationService.
type Options struct {
	// Timeout bounds one acquisition (generation and image search).
	// 0 leaves it to the caller's context.
	Timeout time.Duration

	// DedupeInFlight collapses concurrent misses for the same key into one
	// acquisition.
	DedupeInFlight bool

	// TracerProvider receives the lookup and acquisition spans. nil uses the
	// global provider.
	TracerProvider trace.TracerProvider
}

// LocationService is the main entry point for location data.
// Records returned to callers are shared with the cache writer and must be
// treated as read-only.
type LocationService struct {
	cache     storage.CacheStore
	generator Generator
	images    ImageSource
	opts      Options

	inflight singleflight.Group
	writes   sync.WaitGroup

	// background tracks warm-ups and shared acquisitions whose waiters gave
	// up; stop cancels warm-ups on Close.
	background sync.WaitGroup
	stop       context.Context
	stopFn     context.CancelFunc
	warming    atomic.Bool

	tracer trace.Tracer
	logger *zap.Logger
}

// NewLocationService creates a service with both acquisition sources wired up.
func NewLocationService(
	cache storage.CacheStore,
	generator Generator,
	images ImageSource,
	opts Options,
	logger *zap.Logger,
) *LocationService {
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	stop, stopFn := context.WithCancel(context.Background())
	return &LocationService{
		cache:     cache,
		generator: generator,
		images:    images,
		opts:      opts,
		stop:      stop,
		stopFn:    stopFn,
		tracer:    tp.Tracer(tracerName),
		logger:    logger,
	}
}

// GetLocationData returns the record for place and tags, generating it on a
// cache miss. Tag order does not affect the cache key, but the first
// non-blank tag is the core theme of a fresh generation.
//
// A generation failure is returned unchanged (*provider.GenerationError) and
// nothing is cached.
func (s *LocationService) GetLocationData(ctx context.Context, place string, tags []string) (*model.LocationRecord, error) {
	key := model.NewCacheKey(place, tags)

	if record, ok := s.lookup(ctx, key); ok {
		return record, nil
	}

	s.logger.Info("cache miss, generating location",
		zap.String("place", key.Place),
		zap.String("tags", key.Tags),
	)

	if !s.opts.DedupeInFlight {
		return s.acquire(ctx, key, place, tags)
	}

	// The shared acquisition must outlive any single waiter, so it runs on a
	// context that keeps values but drops cancellation. Its own timeout
	// still applies.
	shared := context.WithoutCancel(ctx)
	s.background.Add(1)
	ch := s.inflight.DoChan(key.String(), func() (interface{}, error) {
		return s.acquire(shared, key, place, tags)
	})

	select {
	case <-ctx.Done():
		// Close must still see the acquisition and its cache write.
		go func() {
			<-ch
			s.background.Done()
		}()
		return nil, ctx.Err()
	case res := <-ch:
		s.background.Done()
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("joined in-flight generation", zap.String("key", key.String()))
		}
		return res.Val.(*model.LocationRecord), nil
	}
}

// GetCachedLocationData returns the cached record for place and tags. It
// never generates; ok is false on a miss or a failed read.
func (s *LocationService) GetCachedLocationData(ctx context.Context, place string, tags []string) (*model.LocationRecord, bool) {
	return s.lookup(ctx, model.NewCacheKey(place, tags))
}

// Wait blocks until every background cache write has finished.
func (s *LocationService) Wait() {
	s.writes.Wait()
}

// Close cancels running warm-ups, then waits for them, for shared
// acquisitions and for pending cache writes. The cache must stay open until
// Close returns.
func (s *LocationService) Close() {
	s.stopFn()
	s.background.Wait()
	s.writes.Wait()
}

// lookup reads the cache. Read failures are logged and reported as a miss.
func (s *LocationService) lookup(ctx context.Context, key model.CacheKey) (*model.LocationRecord, bool) {
	ctx, span := s.tracer.Start(ctx, "location.cache.lookup", trace.WithAttributes(
		attribute.String("location.place", key.Place),
		attribute.String("location.tags", key.Tags),
	))
	defer span.End()

	record, err := s.cache.Lookup(ctx, key)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return record, true
	case errors.Is(err, storage.ErrNotFound):
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		readErr := &CacheReadError{Key: key, Err: err}
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		span.RecordError(readErr)
		s.logger.Warn("cache read failed, treating as miss", zap.Error(readErr))
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))
	return nil, false
}

// acquire runs the generator and the image resolver concurrently, merges
// their results and schedules the cache write. The image search uses the
// place as the caller spelled it.
func (s *LocationService) acquire(ctx context.Context, key model.CacheKey, place string, tags []string) (*model.LocationRecord, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "location.acquire", trace.WithAttributes(
		attribute.String("location.place", key.Place),
		attribute.String("location.tags", key.Tags),
	))
	defer span.End()

	var (
		generated *model.LocationRecord
		imageURL  string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record, err := s.generator.Generate(gctx, key.Place, tags)
		if err != nil {
			return err
		}
		generated = record
		return nil
	})
	g.Go(func() error {
		imageURL = s.images.Resolve(gctx, place)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		s.logger.Error("generating location",
			zap.String("place", key.Place),
			zap.String("tags", key.Tags),
			zap.Error(err),
		)
		return nil, err
	}

	record := generated.WithHeaderImage(imageURL)
	s.storeAsync(key, record)

	s.logger.Info("generated location",
		zap.String("place", key.Place),
		zap.String("tags", key.Tags),
	)
	return record, nil
}

// storeAsync inserts the record without blocking the caller.
func (s *LocationService) storeAsync(key model.CacheKey, record *model.LocationRecord) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		err := s.cache.Insert(ctx, key, record)
		metrics.CacheWrites.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			s.logger.Error("cache write failed", zap.Error(&CacheWriteError{Key: key, Err: err}))
		}
	}()
}

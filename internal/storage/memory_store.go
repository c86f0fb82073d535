package storage

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/fleveque/location-service/internal/model"
)

// MemoryCacheStore keeps records in process memory. It does not survive a
// restart and is meant for development and single-instance deployments.
type MemoryCacheStore struct {
	cache *cache.Cache
}

// NewMemoryCacheStore creates an in-memory store. ttl 0 keeps entries forever.
func NewMemoryCacheStore(ttl time.Duration) *MemoryCacheStore {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 2
		if cleanup < time.Minute {
			cleanup = time.Minute
		}
	}
	return &MemoryCacheStore{cache: cache.New(expiration, cleanup)}
}

func (s *MemoryCacheStore) Lookup(_ context.Context, key model.CacheKey) (*model.LocationRecord, error) {
	v, ok := s.cache.Get(key.String())
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(v.([]byte))
}

// Insert adds the record unless the key is already present; the first record
// for a key wins.
func (s *MemoryCacheStore) Insert(_ context.Context, key model.CacheKey, record *model.LocationRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}
	// Add fails only when the key exists, which is the tolerated duplicate case.
	_ = s.cache.Add(key.String(), data, cache.DefaultExpiration)
	return nil
}

// Len returns the number of live entries.
func (s *MemoryCacheStore) Len() int {
	return s.cache.ItemCount()
}

var _ CacheStore = (*MemoryCacheStore)(nil)

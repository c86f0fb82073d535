package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/fleveque/location-service/internal/model"
)

// ValkeyCacheStore persists location records in a Valkey-compatible database.
// Inserts use SET NX, so the first record stored for a key wins and later
// duplicates are dropped by the server.
type ValkeyCacheStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyCacheStore constructs a new store backed by Valkey.
func NewValkeyCacheStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyCacheStore {
	if prefix == "" {
		prefix = "location"
	}
	return &ValkeyCacheStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyCacheStore) Lookup(ctx context.Context, key model.CacheKey) (*model.LocationRecord, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("looking up %s: %w", key, err)
	}
	return decodeRecord([]byte(payload))
}

func (s *ValkeyCacheStore) Insert(ctx context.Context, key model.CacheKey, record *model.LocationRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(data)).Nx()
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}

	// A nil reply means the key already existed; that is not a failure.
	if err := s.client.Do(ctx, cmd).Error(); err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("inserting %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyCacheStore) entryKey(key model.CacheKey) string {
	return s.prefix + ":" + key.String()
}

var _ CacheStore = (*ValkeyCacheStore)(nil)

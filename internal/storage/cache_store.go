package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fleveque/location-service/internal/model"
)

// ErrNotFound is returned when no cache entry exists for a key.
var ErrNotFound = errors.New("location not cached")

// CacheStore is the append-only location cache. There is no update or
// delete: a key may hold several entries and Lookup deterministically returns
// one of them.
type CacheStore interface {
	Lookup(ctx context.Context, key model.CacheKey) (*model.LocationRecord, error)
	Insert(ctx context.Context, key model.CacheKey, record *model.LocationRecord) error
}

// Stores keep records as opaque JSON blobs, so every Lookup decodes a fresh
// value that no other request shares.

func encodeRecord(record *model.LocationRecord) ([]byte, error) {
	if record == nil {
		return nil, errors.New("nil record")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*model.LocationRecord, error) {
	var record model.LocationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &record, nil
}

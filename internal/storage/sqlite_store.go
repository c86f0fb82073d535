package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/location-service/internal/model"
)

// sqliteCacheStore is the SQLite implementation of CacheStore.
type sqliteCacheStore struct {
	db  *sqlx.DB
	ttl time.Duration // 0 keeps entries forever
	now func() time.Time
}

// NewSQLiteCacheStore creates a CacheStore backed by the locations table.
// Entries older than ttl are ignored on read; ttl 0 disables expiry.
func NewSQLiteCacheStore(db *sqlx.DB, ttl time.Duration) CacheStore {
	return &sqliteCacheStore{db: db, ttl: ttl, now: time.Now}
}

func (s *sqliteCacheStore) Lookup(ctx context.Context, key model.CacheKey) (*model.LocationRecord, error) {
	var entry model.CacheEntry
	var err error

	// ORDER BY id picks the first inserted row when duplicates exist.
	if s.ttl > 0 {
		cutoff := s.now().UTC().Add(-s.ttl)
		err = s.db.GetContext(ctx, &entry,
			`SELECT * FROM locations WHERE city_name = ? AND tags = ? AND created_at >= ? ORDER BY id ASC LIMIT 1`,
			key.Place, key.Tags, cutoff)
	} else {
		err = s.db.GetContext(ctx, &entry,
			`SELECT * FROM locations WHERE city_name = ? AND tags = ? ORDER BY id ASC LIMIT 1`,
			key.Place, key.Tags)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", key, err)
	}

	return decodeRecord([]byte(entry.Data))
}

func (s *sqliteCacheStore) Insert(ctx context.Context, key model.CacheKey, record *model.LocationRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	entry := &model.CacheEntry{
		CityName:  key.Place,
		Tags:      key.Tags,
		Data:      string(data),
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO locations (city_name, tags, data, created_at)
		VALUES (:city_name, :tags, :data, :created_at)
	`, entry)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", key, err)
	}
	return nil
}

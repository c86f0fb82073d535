package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fleveque/location-service/internal/model"
	"github.com/fleveque/location-service/internal/testutil"
)

// setupTestDB creates a temporary SQLite database for testing.
func setupTestDB(t *testing.T) *testDeps {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	return &testDeps{
		cache: NewSQLiteCacheStore(db, 0),
		calls: NewGenerationCallRepository(db),
	}
}

type testDeps struct {
	cache CacheStore
	calls GenerationCallRepository
}

func sampleRecord(name, image string) *model.LocationRecord {
	rec := testutil.SampleRecord(name)
	rec.HeaderImageURL = image
	return &rec
}

// storeContract runs the behavior every CacheStore backend must share.
func storeContract(t *testing.T, store CacheStore) {
	t.Helper()
	ctx := context.Background()

	key := model.NewCacheKey("京都", []string{"art", "finance"})

	if _, err := store.Lookup(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	first := sampleRecord("京都", "https://img/first.jpg")
	if err := store.Insert(ctx, key, first); err != nil {
		t.Fatalf("inserting first record: %v", err)
	}

	// A duplicate insert for the same key must not fail and must not
	// replace what readers see.
	second := sampleRecord("京都", "https://img/second.jpg")
	if err := store.Insert(ctx, key, second); err != nil {
		t.Fatalf("inserting duplicate record: %v", err)
	}

	got, err := store.Lookup(ctx, model.NewCacheKey("京都", []string{"finance", "art"}))
	if err != nil {
		t.Fatalf("looking up: %v", err)
	}
	if !reflect.DeepEqual(got, first) {
		t.Errorf("expected first inserted record, got image %q", got.HeaderImageURL)
	}

	// Readers get independent copies.
	got.LocationName = "changed"
	again, err := store.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("looking up again: %v", err)
	}
	if again.LocationName != "京都" {
		t.Error("expected stored record to be unaffected by caller mutation")
	}

	if _, err := store.Lookup(ctx, model.NewCacheKey("京都", nil)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected a different tag set to miss, got %v", err)
	}
}

func TestSQLiteCacheStore_Contract(t *testing.T) {
	deps := setupTestDB(t)
	storeContract(t, deps.cache)
}

func TestMemoryCacheStore_Contract(t *testing.T) {
	store := NewMemoryCacheStore(0)
	storeContract(t, store)
	if store.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", store.Len())
	}
}

func TestSQLiteCacheStore_TTL(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "ttl.db"))
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewSQLiteCacheStore(db, time.Hour).(*sqliteCacheStore)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	key := model.NewCacheKey("Paris", nil)
	if err := store.Insert(ctx, key, sampleRecord("Paris", "https://img/paris.jpg")); err != nil {
		t.Fatalf("inserting: %v", err)
	}

	now = now.Add(30 * time.Minute)
	if _, err := store.Lookup(ctx, key); err != nil {
		t.Fatalf("expected fresh entry to be found, got %v", err)
	}

	now = now.Add(time.Hour)
	if _, err := store.Lookup(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired entry to be a miss, got %v", err)
	}
}

func TestSQLiteCacheStore_CorruptRow(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "corrupt.db"))
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`INSERT INTO locations (city_name, tags, data) VALUES ('Rome', '', '{not json')`); err != nil {
		t.Fatalf("seeding corrupt row: %v", err)
	}

	store := NewSQLiteCacheStore(db, 0)
	_, err = store.Lookup(context.Background(), model.NewCacheKey("Rome", nil))
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a decode error, got %v", err)
	}
}

func TestGenerationCallRepository_CreateAndCount(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	duration := int64(1500)
	msg := "rate limited"
	calls := []*model.GenerationCall{
		{Place: "京都", Provider: "gemini", Model: "gemini-2.5-flash-lite", Success: true, DurationMs: &duration},
		{Place: "Paris", Tags: "art", Provider: "gemini", Model: "gemini-2.5-flash-lite", Success: false, ErrorMessage: &msg},
	}
	for _, call := range calls {
		if err := deps.calls.Create(ctx, call); err != nil {
			t.Fatalf("creating generation call: %v", err)
		}
		if call.ID == 0 {
			t.Error("expected call ID to be set after create")
		}
	}

	total, err := deps.calls.Count(ctx)
	if err != nil {
		t.Fatalf("counting calls: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 calls, got %d", total)
	}

	failed, err := deps.calls.CountBySuccess(ctx, false)
	if err != nil {
		t.Fatalf("counting failed calls: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed call, got %d", failed)
	}

	recent, err := deps.calls.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("listing calls: %v", err)
	}
	if len(recent) != 2 || recent[0].Place != "Paris" {
		t.Errorf("expected newest call first, got %+v", recent)
	}
	if recent[0].ErrorMessage == nil || *recent[0].ErrorMessage != msg {
		t.Error("expected error message to round-trip")
	}
}

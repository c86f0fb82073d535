package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// CacheKey identifies one cached LocationRecord. Tags is the normalized tag
// set: trimmed, deduplicated, sorted and comma-joined ("" when empty).
type CacheKey struct {
	Place string
	Tags  string
}

// NewCacheKey builds the key for a place and tag list. The same place with the
// same tags in any order yields the same key.
func NewCacheKey(place string, tags []string) CacheKey {
	return CacheKey{
		Place: strings.TrimSpace(place),
		Tags:  strings.Join(NormalizeTags(tags), ","),
	}
}

// NormalizeTags trims, drops empties, deduplicates and sorts.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// String renders the key for logs and for flat key-value stores. The place is
// length-prefixed so no place or tag spelling can collide with another key.
func (k CacheKey) String() string {
	return strconv.Itoa(len(k.Place)) + ":" + k.Place + "|" + k.Tags
}

// CacheEntry is one persisted row. The schema has no uniqueness constraint on
// (city_name, tags), so several entries may exist for the same key.
type CacheEntry struct {
	ID        int64     `db:"id" json:"id"`
	CityName  string    `db:"city_name" json:"city_name"`
	Tags      string    `db:"tags" json:"tags"`
	Data      string    `db:"data" json:"data"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GenerationCall tracks each attempt against a generation backend for cost
// and latency monitoring.
type GenerationCall struct {
	ID           int64     `db:"id" json:"id"`
	Place        string    `db:"place" json:"place"`
	Tags         string    `db:"tags" json:"tags"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	Success      bool      `db:"success" json:"success"`
	DurationMs   *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

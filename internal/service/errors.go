package service

import (
	"fmt"

	"github.com/fleveque/location-service/internal/model"
)

// CacheReadError is logged when a cache lookup fails for a reason other than
// a miss. The request continues as a miss.
type CacheReadError struct {
	Key model.CacheKey
	Err error
}

func (e *CacheReadError) Error() string {
	return fmt.Sprintf("reading cache entry %s: %v", e.Key, e.Err)
}

func (e *CacheReadError) Unwrap() error { return e.Err }

// CacheWriteError is logged when the background insert of a fresh record
// fails. The caller has already received the record.
type CacheWriteError struct {
	Key model.CacheKey
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("writing cache entry %s: %v", e.Key, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned when Create is called with empty text.
	ErrEmptyText = errors.New("cache text is empty")

	// ErrInvalidTTL is returned when Create is called with a non-positive
	// TTL.
	ErrInvalidTTL = errors.New("cache ttl must be positive")

	// ErrNotFound is returned when a referenced cache id is missing or
	// expired. It always surfaces before any provider call.
	ErrNotFound = errors.New("cache entry not found")
)

// NotFoundError carries the id of the missing entry. It unwraps to
// ErrNotFound.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cache entry not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

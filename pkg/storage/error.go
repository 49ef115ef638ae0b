package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record doesn't exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrNilRecord is returned when Put is called with a nil record.
	ErrNilRecord = errors.New("cannot store nil record")
)

// NotFound wraps ErrNotFound with the missing id.
func NotFound(id string) error {
	if id == "" {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

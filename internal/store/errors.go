package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get/Update/Delete on a missing id.
// Always wrapped with the kind and id; check with errors.Is.
var ErrNotFound = errors.New("not found")

func notFound(kind Kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// NewID generates an entity id.
func NewID() string {
	return uuid.NewString()
}

// nowMillis is the timestamp source, swappable in tests.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

package types

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound the collection does not exist in the store
var ErrNotFound = errors.New("collection does not exist")

// Store the read side of the record store the export engine needs
type Store interface {
	// Query returns every row of the collection whose creation time falls in the range.
	// Errors wrapping ErrNotFound mean the collection is missing.
	Query(ctx context.Context, collection string, rng Range) ([]*Row, error)
}

// Range an inclusive creation time window, nil bounds are open
type Range struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains reports whether t is inside the range
func (rng Range) Contains(t time.Time) bool {
	if rng.Start != nil && t.Before(*rng.Start) {
		return false
	}
	if rng.End != nil && t.After(*rng.End) {
		return false
	}
	return true
}

// Bounded reports whether at least one side of the range is set
func (rng Range) Bounded() bool {
	return rng.Start != nil || rng.End != nil
}

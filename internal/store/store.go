package store

import (
	"errors"
	"time"

	"github.com/kolapsis/crier/internal/activity"
)

// ErrNotFound is returned when a requested activity does not exist.
var ErrNotFound = errors.New("activity not found")

// Store is the persistence interface for Crier.
// Defined at the consumer side per Go conventions.
type Store interface {
	// CreateActivity persists a, assigning its ID.
	CreateActivity(a *activity.Activity) error

	// GetActivity returns the activity with the given id, or ErrNotFound.
	GetActivity(id string) (*activity.Activity, error)

	// ListActivities returns activities visible at f.Now, newest first.
	ListActivities(f Filter) ([]activity.Activity, error)

	// Cleanup deletes activities whose expiry passed before olderThan.
	Cleanup(olderThan time.Time) error

	Close() error
}

// Filter specifies criteria for listing activities. Now is the
// evaluation time for the visibility predicate; the zero value means
// time.Now at query time.
type Filter struct {
	Category   activity.Category
	ActiveOnly bool
	Now        time.Time
	Limit      int
}

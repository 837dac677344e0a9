package activity

import "time"

// Category classifies an announcement.
type Category string

const (
	CategoryMaintenance Category = "Maintenance"
	CategoryFeature     Category = "Feature"
	CategoryUpdate      Category = "Update"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMaintenance, CategoryFeature, CategoryUpdate:
		return true
	}
	return false
}

// Activity is a short-lived announcement.
type Activity struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Category  Category   `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Active is a snapshot computed when the record was written.
	// It may go stale for long-lived records; Visible is the
	// authority on every read path, Active is display history only.
	Active bool `json:"is_active"`
}

// Visible reports whether a is still visible at the given time.
// A nil expiry never expires; an expiry exactly equal to now counts
// as expired. Both the store's filtered queries and push consumers
// use this same predicate so pull and push paths never disagree.
func Visible(a Activity, now time.Time) bool {
	if a.ExpiresAt == nil {
		return true
	}
	return a.ExpiresAt.After(now)
}

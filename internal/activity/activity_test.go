package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisible_NoExpiry_AlwaysVisible(t *testing.T) {
	t.Parallel()
	a := Activity{Title: "Release notes"}

	now := time.Now()
	assert.True(t, Visible(a, now))
	assert.True(t, Visible(a, now.Add(100*365*24*time.Hour)))
}

func TestVisible_FutureExpiry_Visible(t *testing.T) {
	t.Parallel()
	now := time.Now()
	exp := now.Add(time.Hour)
	a := Activity{ExpiresAt: &exp}

	assert.True(t, Visible(a, now))
}

func TestVisible_PastExpiry_NotVisible(t *testing.T) {
	t.Parallel()
	now := time.Now()
	exp := now.Add(-time.Hour)
	a := Activity{ExpiresAt: &exp}

	assert.False(t, Visible(a, now))
}

func TestVisible_ExactBoundary_CountsAsExpired(t *testing.T) {
	t.Parallel()
	now := time.Now()
	exp := now
	a := Activity{ExpiresAt: &exp}

	assert.False(t, Visible(a, now))
}

// Once an activity is invisible at some time it stays invisible at
// every later time.
func TestVisible_Monotonic(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := base.Add(30 * time.Minute)
	a := Activity{ExpiresAt: &exp}

	firstInvisible := time.Time{}
	for i := 0; i < 120; i++ {
		now := base.Add(time.Duration(i) * time.Minute)
		if !Visible(a, now) && firstInvisible.IsZero() {
			firstInvisible = now
		}
		if !firstInvisible.IsZero() {
			assert.False(t, Visible(a, now), "re-activated at %s", now)
		}
	}
	assert.False(t, firstInvisible.IsZero())
}

func TestCategory_Valid(t *testing.T) {
	t.Parallel()
	assert.True(t, CategoryMaintenance.Valid())
	assert.True(t, CategoryFeature.Valid())
	assert.True(t, CategoryUpdate.Valid())
	assert.False(t, Category("Outage").Valid())
	assert.False(t, Category("").Valid())
}

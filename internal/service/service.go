// Package service orchestrates the activity lifecycle: persist first,
// then fan out to live subscribers.
package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/hub"
	"github.com/kolapsis/crier/internal/observability"
	"github.com/kolapsis/crier/internal/store"
)

// Service owns the creation pipeline and the read paths. The hub is
// passed in by the process bootstrap, not looked up globally.
type Service struct {
	store store.Store
	hub   *hub.Hub
	now   func() time.Time
}

// New creates a Service.
func New(st store.Store, h *hub.Hub) *Service {
	return &Service{
		store: st,
		hub:   h,
		now:   time.Now,
	}
}

// SetClock overrides the service clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Filter narrows a listing. Zero value lists everything visible.
type Filter struct {
	Category   activity.Category
	ActiveOnly bool
	Limit      int
}

// Create runs the creation pipeline on pre-validated input: normalize,
// persist, publish, return. The record is published only after the
// store write succeeds, so a subscriber that re-queries on receipt
// will find it. Publishing cannot fail the creation: once persisted,
// the caller always gets the record back.
func (s *Service) Create(in activity.CreateInput) (*activity.Activity, error) {
	now := s.now()

	a := &activity.Activity{
		Title:     in.Title,
		Message:   in.Message,
		Category:  in.Category,
		CreatedAt: now,
		ExpiresAt: in.ExpiresAt,
	}
	// Write-time snapshot; reads re-evaluate the predicate themselves.
	a.Active = activity.Visible(*a, now)

	if err := s.store.CreateActivity(a); err != nil {
		return nil, fmt.Errorf("persisting activity: %w", err)
	}
	observability.RecordActivityCreated()

	slog.Info("activity created",
		"activity_id", a.ID,
		"category", string(a.Category),
		"active", a.Active)

	s.hub.Publish(*a)

	return a, nil
}

// Get returns one activity by id.
func (s *Service) Get(id string) (*activity.Activity, error) {
	return s.store.GetActivity(id)
}

// List returns activities visible right now, newest first.
func (s *Service) List(f Filter) ([]activity.Activity, error) {
	return s.store.ListActivities(store.Filter{
		Category:   f.Category,
		ActiveOnly: f.ActiveOnly,
		Now:        s.now(),
		Limit:      f.Limit,
	})
}

// Subscribe registers a live subscriber with the hub.
func (s *Service) Subscribe() *hub.Subscription {
	return s.hub.Subscribe()
}

// StartCleanupLoop deletes long-expired activities every interval
// until stop is closed. retention is how long expired records are
// kept around; visibility never depends on this sweep.
func (s *Service) StartCleanupLoop(stop <-chan struct{}, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := s.now().Add(-retention)
			if err := s.store.Cleanup(cutoff); err != nil {
				slog.Warn("activity cleanup failed", "error", err)
			}
		case <-stop:
			return
		}
	}
}

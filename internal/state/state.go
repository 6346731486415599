// Package state holds the process-wide values shared by every request: the
// store handle, the health message and the visit counter behind /health.
package state

import (
	"fmt"
	"sync/atomic"

	"gorm.io/gorm"
)

// AppState is created once at startup and shared by all handlers. DB is safe
// for concurrent use; the visit counter is updated atomically.
type AppState struct {
	DB            *gorm.DB
	HealthMessage string

	visits atomic.Uint64
}

// New returns an AppState with a zero visit count.
func New(db *gorm.DB, healthMessage string) *AppState {
	return &AppState{DB: db, HealthMessage: healthMessage}
}

// Visit records one health check and returns the number of checks that
// happened before it.
func (s *AppState) Visit() uint64 {
	return s.visits.Add(1) - 1
}

// Visits returns the number of health checks served so far.
func (s *AppState) Visits() uint64 {
	return s.visits.Load()
}

// HealthReport records a visit and renders the health line, e.g.
// "I'm OK. 0 times" on the first call.
func (s *AppState) HealthReport() string {
	return fmt.Sprintf("%s %d times", s.HealthMessage, s.Visit())
}

// Package monitor periodically reports process and layout health: entity
// counts, goroutine and memory figures, and the number of background save
// failures seen since the previous report.
package monitor

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/havenplan/layout/pkg/core"
)

// StateSource is the slice of the application state the monitor reads.
type StateSource interface {
	Layout() core.Layout
}

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	State    StateSource
	Logger   *slog.Logger
	Interval time.Duration

	// PendingErrors reports background save failures accumulated since the
	// last call. Optional.
	PendingErrors func() int
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Minute
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start launches the reporting loop. Starting a running service is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.report()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop halts the reporting loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
	s.stopChan = make(chan struct{})
}

func (s *Service) report() {
	layout := s.deps.State.Layout()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	attrs := []any{
		"zones", len(layout.Zones),
		"piers", len(layout.Piers),
		"slots", len(layout.Slots),
		"boats", len(layout.Boats),
		"goroutines", runtime.NumGoroutine(),
		"heapMB", mem.HeapAlloc / 1024 / 1024,
	}
	if s.deps.PendingErrors != nil {
		attrs = append(attrs, "saveFailures", s.deps.PendingErrors())
	}

	s.deps.Logger.Info("Status", attrs...)
}

package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase represents a single timed phase.
type Phase struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
	completed bool
}

// Timer records named phases of a run (conversion, solving, verification).
type Timer struct {
	mu     sync.Mutex
	phases []*Phase
	index  map[string]*Phase
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	return &Timer{index: make(map[string]*Phase)}
}

// Start begins a new phase and returns a stop function.
// Stopping twice is harmless; only the first call records the duration.
func (t *Timer) Start(name string) func() time.Duration {
	t.mu.Lock()
	p := &Phase{Name: name, StartTime: time.Now()}
	t.phases = append(t.phases, p)
	t.index[name] = p
	t.mu.Unlock()

	return func() time.Duration {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !p.completed {
			p.Duration = time.Since(p.StartTime)
			p.completed = true
		}
		return p.Duration
	}
}

// Duration returns the recorded duration for a phase, or zero if unknown.
func (t *Timer) Duration(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.index[name]; ok {
		return p.Duration
	}
	return 0
}

// Summary returns a one-line summary of all completed phases, in order.
func (t *Timer) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	parts := make([]string, 0, len(t.phases))
	for _, p := range t.phases {
		if p.completed {
			parts = append(parts, fmt.Sprintf("%s=%s", p.Name, p.Duration.Round(time.Microsecond)))
		}
	}
	return strings.Join(parts, " ")
}

// Report logs each completed phase through the given logger.
func (t *Timer) Report(logger Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.phases {
		if p.completed {
			logger.Info("%s: %s", p.Name, p.Duration.Round(time.Microsecond))
		}
	}
}

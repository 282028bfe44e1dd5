// Package testutil provides test utilities for progress tracking.
package testutil

import (
	"sync"
)

// ObjectEvent records one per-object progress callback.
type ObjectEvent struct {
	Key  string
	Size int64
	Err  error
}

// MockProgressTracker is a mock implementation of ProgressTracker for testing.
// Uploads report from the worker pool's goroutines, so all state is
// mutex-guarded.
type MockProgressTracker struct {
	mu             sync.Mutex
	uploaded       []ObjectEvent
	failed         []ObjectEvent
	completeCalled bool
}

// ObjectUploaded records a successful upload event.
func (m *MockProgressTracker) ObjectUploaded(key string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = append(m.uploaded, ObjectEvent{Key: key, Size: size})
}

// ObjectFailed records a failed upload event.
func (m *MockProgressTracker) ObjectFailed(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, ObjectEvent{Key: key, Err: err})
}

// Complete marks the deploy as finished.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalled = true
}

// Uploaded returns a copy of the recorded upload events.
func (m *MockProgressTracker) Uploaded() []ObjectEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ObjectEvent(nil), m.uploaded...)
}

// Failed returns a copy of the recorded failure events.
func (m *MockProgressTracker) Failed() []ObjectEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ObjectEvent(nil), m.failed...)
}

// CompleteCalled reports whether Complete has been invoked.
func (m *MockProgressTracker) CompleteCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeCalled
}

// Reset clears the mock tracker state.
func (m *MockProgressTracker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = nil
	m.failed = nil
	m.completeCalled = false
}

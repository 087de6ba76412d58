package mqtt

import (
	"fmt"
	"sync"
	"time"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Messages map[string][]byte
	FailDays map[string]bool
	mu       sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Messages: make(map[string][]byte),
		FailDays: make(map[string]bool),
	}
}

// PublishSchedule records the payload or returns an error if configured to
// fail for the day.
func (m *MockPublisher) PublishSchedule(day time.Time, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := day.Format("2006-01-02")
	if m.FailDays[key] {
		return fmt.Errorf("publish failed")
	}
	m.Messages[key] = payload
	return nil
}

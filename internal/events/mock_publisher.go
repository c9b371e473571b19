package events

import (
	"log/slog"
	"sync"
)

// MockEventPublisher records published events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*NotificationEvent
	logger *slog.Logger

	// FailNext makes the next publish return an error, for testing
	// best-effort semantics.
	FailNext error
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) PublishNotification(event *NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}

	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) GetPublishedEvents() []*NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*NotificationEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) Close() error { return nil }

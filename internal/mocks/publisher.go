package mocks

import (
	"bytes"
	"context"
	"sync"
)

// PublishedMessage records one call to MockPublisher.Publish.
type PublishedMessage struct {
	Data       []byte
	Attributes map[string]string
}

// MockPublisher implements the queue publisher interfaces for testing.
type MockPublisher struct {
	// PublishFn allows test cases to mock the Publish behavior
	PublishFn func(ctx context.Context, data []byte, attributes map[string]string) (string, error)

	// Default values used when PublishFn isn't defined
	MessageID string
	Err       error

	mu       sync.Mutex
	messages []PublishedMessage
}

// Publish records the message and returns the configured result.
func (m *MockPublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error) {
	m.mu.Lock()
	m.messages = append(m.messages, PublishedMessage{
		Data:       bytes.Clone(data),
		Attributes: attributes,
	})
	m.mu.Unlock()

	if m.PublishFn != nil {
		return m.PublishFn(ctx, data, attributes)
	}
	return m.MessageID, m.Err
}

// CallCount returns how many times Publish was called.
func (m *MockPublisher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Messages returns a copy of every published message in call order.
func (m *MockPublisher) Messages() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

package mocks

import (
	"context"
	"sync"

	"github.com/voicecare/relay/internal/dispatch"
	"github.com/voicecare/relay/internal/domain"
)

// MockRoomJoiner implements dispatch.RoomJoiner for testing
type MockRoomJoiner struct {
	// StartFn allows test cases to mock the Start behavior
	StartFn func(ctx context.Context, room string) error

	// Err is returned when StartFn isn't defined
	Err error

	mu    sync.Mutex
	rooms []string
}

var _ dispatch.RoomJoiner = (*MockRoomJoiner)(nil)

// Start records room and returns the configured result.
func (m *MockRoomJoiner) Start(ctx context.Context, room string) error {
	m.mu.Lock()
	m.rooms = append(m.rooms, room)
	m.mu.Unlock()
	if m.StartFn != nil {
		return m.StartFn(ctx, room)
	}
	return m.Err
}

// Rooms returns every room passed to Start.
func (m *MockRoomJoiner) Rooms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.rooms...)
}

// MockRoomConnector implements dispatch.RoomConnector for testing.
// Without JoinFn, Join blocks until ctx is done.
type MockRoomConnector struct {
	JoinFn func(ctx context.Context, room, token string) error

	mu     sync.Mutex
	tokens []string
}

var _ dispatch.RoomConnector = (*MockRoomConnector)(nil)

// Join implements dispatch.RoomConnector.
func (m *MockRoomConnector) Join(ctx context.Context, room, token string) error {
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()
	if m.JoinFn != nil {
		return m.JoinFn(ctx, room, token)
	}
	<-ctx.Done()
	return nil
}

// Tokens returns every token Join was called with.
func (m *MockRoomConnector) Tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}

// MockResponder implements dispatch.Responder for testing
type MockResponder struct {
	RespondFn func(ctx context.Context, task domain.Task) (string, error)

	// Default values used when RespondFn isn't defined
	Reply string
	Err   error

	mu    sync.Mutex
	tasks []domain.Task
}

var _ dispatch.Responder = (*MockResponder)(nil)

// Respond implements dispatch.Responder.
func (m *MockResponder) Respond(ctx context.Context, task domain.Task) (string, error) {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	if m.RespondFn != nil {
		return m.RespondFn(ctx, task)
	}
	return m.Reply, m.Err
}

// Tasks returns every task passed to Respond.
func (m *MockResponder) Tasks() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Task(nil), m.tasks...)
}

// MockDeadLetterSink implements dispatch.DeadLetterSink and records letters.
type MockDeadLetterSink struct {
	Err error

	mu      sync.Mutex
	letters []dispatch.DeadLetter
}

var _ dispatch.DeadLetterSink = (*MockDeadLetterSink)(nil)

// Send implements dispatch.DeadLetterSink.
func (m *MockDeadLetterSink) Send(_ context.Context, letter dispatch.DeadLetter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.letters = append(m.letters, letter)
	return m.Err
}

// Letters returns every letter sent.
func (m *MockDeadLetterSink) Letters() []dispatch.DeadLetter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dispatch.DeadLetter(nil), m.letters...)
}

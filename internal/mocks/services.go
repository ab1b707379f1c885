package mocks

import (
	"context"

	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	SubmitFn    func(ctx context.Context, task domain.Task, authHeader string) (string, error)
	StartRoomFn func(ctx context.Context, room, authHeader string) (string, error)

	// Default values used when functions aren't explicitly defined
	MessageID string
	Err       error
}

var _ service.TaskService = (*MockTaskService)(nil)

// Submit implements service.TaskService
func (m *MockTaskService) Submit(ctx context.Context, task domain.Task, authHeader string) (string, error) {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, task, authHeader)
	}
	return m.MessageID, m.Err
}

// StartRoom implements service.TaskService
func (m *MockTaskService) StartRoom(ctx context.Context, room, authHeader string) (string, error) {
	if m.StartRoomFn != nil {
		return m.StartRoomFn(ctx, room, authHeader)
	}
	return m.MessageID, m.Err
}

// MockTokenService implements service.TokenService for testing
type MockTokenService struct {
	IssueClientTokenFn func(ctx context.Context, room, identity, authHeader string) (string, error)

	Token string
	Err   error
}

var _ service.TokenService = (*MockTokenService)(nil)

// IssueClientToken implements service.TokenService
func (m *MockTokenService) IssueClientToken(ctx context.Context, room, identity, authHeader string) (string, error) {
	if m.IssueClientTokenFn != nil {
		return m.IssueClientTokenFn(ctx, room, identity, authHeader)
	}
	return m.Token, m.Err
}

package service

import (
	"context"
	"log/slog"

	"github.com/voicecare/relay/internal/domain"
)

// SourceAttribute tags every message the backend publishes.
const SourceAttribute = "backend"

// Publisher sends one encoded task to the queue and returns its message id.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}

// TaskService accepts work from clients and forwards it to the worker queue.
type TaskService interface {
	// Submit publishes a generic user task. The task must carry a user id and text.
	Submit(ctx context.Context, task domain.Task, authHeader string) (string, error)

	// StartRoom publishes a join_room task for room.
	StartRoom(ctx context.Context, room, authHeader string) (string, error)
}

type taskServiceImpl struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewTaskService creates a TaskService publishing through publisher.
// It returns an error if publisher is nil.
func NewTaskService(publisher Publisher, logger *slog.Logger) (TaskService, error) {
	if publisher == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "publisher cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		publisher: publisher,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// Submit validates task and publishes it.
func (s *taskServiceImpl) Submit(ctx context.Context, task domain.Task, authHeader string) (string, error) {
	if authHeader == "" {
		return "", domain.ErrUnauthorized
	}
	if task.Kind == "" {
		task.Kind = domain.TaskKindGeneric
	}
	if task.Kind != domain.TaskKindGeneric {
		return "", domain.NewValidationError("task", "must be a generic task")
	}
	if err := task.Validate(); err != nil {
		return "", err
	}
	return s.publish(ctx, task)
}

// StartRoom publishes the task that makes the worker join room.
func (s *taskServiceImpl) StartRoom(ctx context.Context, room, authHeader string) (string, error) {
	if authHeader == "" {
		return "", domain.ErrUnauthorized
	}
	task, err := domain.NewJoinRoomTask(room)
	if err != nil {
		return "", err
	}
	return s.publish(ctx, task)
}

func (s *taskServiceImpl) publish(ctx context.Context, task domain.Task) (string, error) {
	data, err := task.Encode()
	if err != nil {
		return "", err
	}

	messageID, err := s.publisher.Publish(ctx, data, map[string]string{"source": SourceAttribute})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish task",
			"error", err,
			"task", task.Kind,
			"room", task.Room)
		return "", domain.NewDependencyError("Pub/Sub publish", err)
	}

	s.logger.InfoContext(ctx, "task published",
		"task", task.Kind,
		"room", task.Room,
		"message_id", messageID)
	return messageID, nil
}

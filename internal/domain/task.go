package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// TaskKind identifies what the worker should do with a task.
type TaskKind string

// Known task kinds.
const (
	// TaskKindJoinRoom asks the worker to join a LiveKit room as the assistant.
	TaskKindJoinRoom TaskKind = "join_room"
	// TaskKindAIResponse asks the worker to deliver a reply into a room.
	TaskKindAIResponse TaskKind = "ai_response"
	// TaskKindGeneric is a user task submitted through /api/tasks.
	TaskKindGeneric TaskKind = "task"
)

// WorkerIdentity is the participant identity the worker joins rooms with.
const WorkerIdentity = "ai-worker"

// Known reports whether k is one of the task kinds the system defines.
func (k TaskKind) Known() bool {
	switch k {
	case TaskKindJoinRoom, TaskKindAIResponse, TaskKindGeneric:
		return true
	default:
		return false
	}
}

// Task is the unit of work published by the backend and consumed by the worker.
type Task struct {
	Kind   TaskKind `json:"task,omitempty"`
	Room   string   `json:"room,omitempty"`
	UserID string   `json:"user_id,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// NewUserTask builds a generic task from a user submission.
func NewUserTask(userID, text string) (Task, error) {
	t := Task{Kind: TaskKindGeneric, UserID: userID, Text: text}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// NewJoinRoomTask builds the task that asks the worker to join room.
func NewJoinRoomTask(room string) (Task, error) {
	t := Task{Kind: TaskKindJoinRoom, Room: room}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Validate checks the fields each kind requires. Unknown kinds never validate.
func (t Task) Validate() error {
	switch t.Kind {
	case TaskKindJoinRoom:
		if t.Room == "" {
			return NewValidationError("room", "is required")
		}
	case TaskKindAIResponse:
		if t.Room == "" {
			return NewValidationError("room", "is required")
		}
		if t.Text == "" {
			return NewValidationError("text", "is required")
		}
	case TaskKindGeneric:
		if t.UserID == "" {
			return NewValidationError("user_id", "is required")
		}
		if t.Text == "" {
			return NewValidationError("text", "is required")
		}
	default:
		return NewValidationError("task", fmt.Sprintf("has unknown kind %q", t.Kind))
	}
	return nil
}

// Encode serializes the task for transport.
func (t Task) Encode() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	return data, nil
}

// DecodeTask parses transport bytes into a Task. Anything that is not a UTF-8
// JSON object yields ErrMalformedMessage, including null, arrays and bare
// scalars. An empty payload decodes to the zero Task.
func DecodeTask(data []byte) (Task, error) {
	var t Task
	if len(data) == 0 {
		return t, nil
	}
	if !utf8.Valid(data) {
		return Task{}, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformedMessage)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return Task{}, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedMessage)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return t, nil
}

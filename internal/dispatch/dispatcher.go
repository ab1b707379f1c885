package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/redact"
)

// RoomJoiner hands a room off to a background session.
type RoomJoiner interface {
	Start(ctx context.Context, room string) error
}

// Outcome records what the dispatcher did with a message.
type Outcome string

// Dispatch outcomes.
const (
	OutcomeJoinStarted  Outcome = "join_started"
	OutcomeJoinRejected Outcome = "join_rejected"
	OutcomeResponded    Outcome = "responded"
	OutcomeRespondFail  Outcome = "respond_failed"
	OutcomeDropped      Outcome = "dropped"
	OutcomeDeadLettered Outcome = "dead_lettered"
)

// Dispatcher routes decoded tasks to the component that handles their kind.
type Dispatcher struct {
	joiner      RoomJoiner
	responder   Responder
	deadLetters DeadLetterSink
	logger      *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil sink logs dead letters.
func NewDispatcher(
	joiner RoomJoiner,
	responder Responder,
	deadLetters DeadLetterSink,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if joiner == nil {
		return nil, errors.New("dispatcher: room joiner cannot be nil")
	}
	if responder == nil {
		return nil, errors.New("dispatcher: responder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if deadLetters == nil {
		deadLetters = NewLogSink(logger)
	}
	return &Dispatcher{
		joiner:      joiner,
		responder:   responder,
		deadLetters: deadLetters,
		logger:      logger.With("component", "dispatcher"),
	}, nil
}

// Dispatch handles one pushed message. The message is acknowledged whatever
// the outcome, so Dispatch reports what happened instead of an error.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *PushMessage) Outcome {
	log := d.logger.With("message_id", msg.MessageID)

	data, err := msg.RawData()
	if err != nil {
		return d.deadLetter(ctx, log, ReasonMalformed, msg, nil, err)
	}
	task, err := domain.DecodeTask(data)
	if err != nil {
		return d.deadLetter(ctx, log, ReasonMalformed, msg, data, err)
	}

	log.InfoContext(ctx, "received task",
		"task", task.Kind,
		"room", task.Room,
		"user_id", task.UserID)

	if !task.Kind.Known() {
		return d.deadLetter(ctx, log, ReasonUnknownTask, msg, data, nil)
	}
	if err := task.Validate(); err != nil {
		return d.deadLetter(ctx, log, ReasonInvalidTask, msg, data, err)
	}

	switch task.Kind {
	case domain.TaskKindJoinRoom:
		if err := d.joiner.Start(ctx, task.Room); err != nil {
			log.ErrorContext(ctx, "failed to start room session",
				"error", redact.Error(err),
				"room", task.Room)
			return OutcomeJoinRejected
		}
		return OutcomeJoinStarted

	case domain.TaskKindAIResponse:
		if _, err := d.responder.Respond(ctx, task); err != nil {
			log.ErrorContext(ctx, "failed to respond",
				"error", redact.Error(err),
				"room", task.Room)
			return OutcomeRespondFail
		}
		return OutcomeResponded

	default:
		log.InfoContext(ctx, "no handler for task, dropping",
			"task", task.Kind,
			"user_id", task.UserID)
		return OutcomeDropped
	}
}

// RejectOversize dead-letters a push body that exceeded limit before it could
// be parsed. Nothing of the message is known, so the letter carries no data.
func (d *Dispatcher) RejectOversize(ctx context.Context, limit int64) Outcome {
	err := fmt.Errorf("%w: push body exceeds %d bytes", domain.ErrMalformedMessage, limit)
	return d.deadLetter(ctx, d.logger, ReasonOversize, &PushMessage{}, nil, err)
}

func (d *Dispatcher) deadLetter(
	ctx context.Context,
	log *slog.Logger,
	reason string,
	msg *PushMessage,
	data []byte,
	cause error,
) Outcome {
	if data == nil && msg.Data != "" {
		data = []byte(msg.Data)
	}
	letter := DeadLetter{
		Reason:     reason,
		Data:       data,
		Attributes: msg.Attributes,
		MessageID:  msg.MessageID,
		Err:        cause,
	}
	if err := d.deadLetters.Send(ctx, letter); err != nil {
		log.WarnContext(ctx, "dead-letter sink failed", "error", redact.Error(err))
	}
	return OutcomeDeadLettered
}

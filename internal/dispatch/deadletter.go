package dispatch

import (
	"context"
	"log/slog"

	"github.com/voicecare/relay/internal/redact"
)

// Reasons a message is dead-lettered.
const (
	ReasonMalformed   = "malformed"
	ReasonUnknownTask = "unknown_task"
	ReasonInvalidTask = "invalid_task"
	ReasonOversize    = "oversize"
)

// Attribute keys set on messages forwarded to the dead-letter topic.
const (
	AttrDeadLetterReason  = "dead_letter_reason"
	AttrOriginalMessageID = "original_message_id"
)

// DeadLetter is a message the worker could not act on.
type DeadLetter struct {
	Reason     string
	Data       []byte
	Attributes map[string]string
	MessageID  string
	Err        error
}

// DeadLetterSink receives messages the dispatcher gives up on.
type DeadLetterSink interface {
	Send(ctx context.Context, letter DeadLetter) error
}

// Publisher is the subset of the queue publisher the Pub/Sub sink needs.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}

// LogSink records dead letters in the log and nowhere else.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses the default logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "dead_letter")}
}

// Send logs letter at WARN. It never fails.
func (s *LogSink) Send(ctx context.Context, letter DeadLetter) error {
	attrs := []any{
		"reason", letter.Reason,
		"message_id", letter.MessageID,
		"bytes", len(letter.Data),
	}
	if letter.Err != nil {
		attrs = append(attrs, "error", redact.Error(letter.Err))
	}
	s.logger.WarnContext(ctx, "message dead-lettered", attrs...)
	return nil
}

// PubSubSink forwards dead letters to a topic, falling back to a log sink when
// the publish fails.
type PubSubSink struct {
	publisher Publisher
	fallback  *LogSink
	logger    *slog.Logger
}

// NewPubSubSink creates a sink that publishes through publisher.
func NewPubSubSink(publisher Publisher, logger *slog.Logger) *PubSubSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &PubSubSink{
		publisher: publisher,
		fallback:  NewLogSink(logger),
		logger:    logger.With("component", "dead_letter"),
	}
}

// Send republishes the original payload with the reason attached. A publish
// failure is logged, the letter goes to the fallback sink and the error is
// returned for the caller to log.
func (s *PubSubSink) Send(ctx context.Context, letter DeadLetter) error {
	attributes := make(map[string]string, len(letter.Attributes)+2)
	for k, v := range letter.Attributes {
		attributes[k] = v
	}
	attributes[AttrDeadLetterReason] = letter.Reason
	if letter.MessageID != "" {
		attributes[AttrOriginalMessageID] = letter.MessageID
	}

	data := letter.Data
	if data == nil {
		data = []byte{}
	}

	id, err := s.publisher.Publish(ctx, data, attributes)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish dead letter",
			"error", redact.Error(err),
			"message_id", letter.MessageID)
		_ = s.fallback.Send(ctx, letter)
		return err
	}

	s.logger.InfoContext(ctx, "message forwarded to dead-letter topic",
		"reason", letter.Reason,
		"message_id", letter.MessageID,
		"dead_letter_id", id)
	return nil
}

package dispatch

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/voicecare/relay/internal/domain"
)

// ErrInvalidEnvelope is returned when a push body is not an envelope at all.
// Such requests are rejected rather than acknowledged.
var ErrInvalidEnvelope = errors.New("invalid Pub/Sub message format")

// MaxPushBodyBytes bounds push request bodies. Pub/Sub messages carry up to
// 10 MB of data, which base64 and the envelope grow to about 13.4 MB.
const MaxPushBodyBytes = 16 << 20

// PushEnvelope is the body Pub/Sub POSTs to push endpoints.
type PushEnvelope struct {
	Message      *PushMessage `json:"message"`
	Subscription string       `json:"subscription,omitempty"`
}

// PushMessage is a single delivered message. Data is base64 in standard
// encoding.
type PushMessage struct {
	Data        string            `json:"data,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId,omitempty"`
	PublishTime string            `json:"publishTime,omitempty"`
}

// ParseEnvelope decodes a push request body. Bodies that are not a JSON
// object or carry no message yield ErrInvalidEnvelope.
func ParseEnvelope(body []byte) (*PushEnvelope, error) {
	var env PushEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if env.Message == nil {
		return nil, fmt.Errorf("%w: message is missing", ErrInvalidEnvelope)
	}
	return &env, nil
}

// NewEnvelope wraps data the way Pub/Sub does for a push delivery.
func NewEnvelope(data []byte, attributes map[string]string, messageID, subscription string) PushEnvelope {
	return PushEnvelope{
		Message: &PushMessage{
			Data:       base64.StdEncoding.EncodeToString(data),
			Attributes: attributes,
			MessageID:  messageID,
		},
		Subscription: subscription,
	}
}

// RawData returns the base64-decoded payload.
func (m *PushMessage) RawData() ([]byte, error) {
	if m.Data == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(m.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data is not base64: %v", domain.ErrMalformedMessage, err)
	}
	return data, nil
}

// Task decodes the payload into a task. A message without data decodes to the
// zero Task, whose kind is unknown.
func (m *PushMessage) Task() (domain.Task, error) {
	data, err := m.RawData()
	if err != nil {
		return domain.Task{}, err
	}
	return domain.DecodeTask(data)
}

package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicecare/relay/internal/dispatch"
	"github.com/voicecare/relay/internal/mocks"
	"github.com/voicecare/relay/internal/platform/logger"
)

func TestLogSink_Send(t *testing.T) {
	t.Parallel()
	l, logs := logger.NewTestLogger(t)

	err := dispatch.NewLogSink(l).Send(context.Background(), dispatch.DeadLetter{
		Reason:    dispatch.ReasonUnknownTask,
		Data:      []byte(`{"task":"reboot"}`),
		MessageID: "m-1",
		Err:       errors.New("token=abcdef123456 rejected"),
	})
	require.NoError(t, err)

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "message dead-lettered", entries[0]["msg"])
	assert.Equal(t, dispatch.ReasonUnknownTask, entries[0]["reason"])
	assert.Equal(t, "m-1", entries[0]["message_id"])
	assert.NotContains(t, logs.String(), "abcdef123456")
}

func TestPubSubSink_Send(t *testing.T) {
	t.Parallel()
	l, _ := logger.NewTestLogger(t)
	publisher := &mocks.MockPublisher{MessageID: "dl-1"}

	err := dispatch.NewPubSubSink(publisher, l).Send(context.Background(), dispatch.DeadLetter{
		Reason:     dispatch.ReasonMalformed,
		Data:       []byte("not json"),
		Attributes: map[string]string{"source": "backend"},
		MessageID:  "m-1",
	})
	require.NoError(t, err)

	require.Equal(t, 1, publisher.CallCount())
	msg := publisher.Messages()[0]
	assert.Equal(t, "not json", string(msg.Data))
	assert.Equal(t, map[string]string{
		"source":                       "backend",
		dispatch.AttrDeadLetterReason:  dispatch.ReasonMalformed,
		dispatch.AttrOriginalMessageID: "m-1",
	}, msg.Attributes)
}

func TestPubSubSink_FallsBackToLog(t *testing.T) {
	t.Parallel()
	l, logs := logger.NewTestLogger(t)
	publisher := &mocks.MockPublisher{Err: errors.New("topic not found")}

	err := dispatch.NewPubSubSink(publisher, l).Send(context.Background(), dispatch.DeadLetter{
		Reason:    dispatch.ReasonUnknownTask,
		MessageID: "m-2",
	})

	assert.Error(t, err)
	assert.Contains(t, logs.String(), "failed to publish dead letter")
	assert.Contains(t, logs.String(), "message dead-lettered")
	assert.Equal(t, []byte{}, publisher.Messages()[0].Data)
}

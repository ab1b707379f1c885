package pubsub_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	gpubsub "cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicecare/relay/internal/platform/logger"
	"github.com/voicecare/relay/internal/platform/pubsub"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const testProject = "voicecare-test"

// newEmulator starts an in-process Pub/Sub server with the given topics and
// returns client options pointing at it.
func newEmulator(t *testing.T, topics ...string) (*pstest.Server, []option.ClientOption) {
	t.Helper()

	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	opts := []option.ClientOption{option.WithGRPCConn(conn)}

	admin, err := gpubsub.NewClient(context.Background(), testProject, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })
	for _, topic := range topics {
		_, err := admin.CreateTopic(context.Background(), topic)
		require.NoError(t, err)
	}

	return srv, opts
}

func TestPublisher_Publish(t *testing.T) {
	srv, opts := newEmulator(t, "voicecare-tasks")
	l, _ := logger.NewTestLogger(t)

	client, err := pubsub.NewClient(context.Background(), testProject, l, opts...)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	publisher := client.Publisher("voicecare-tasks", time.Second)
	assert.Equal(t, "voicecare-tasks", publisher.Topic())

	messageID, err := publisher.Publish(
		context.Background(),
		[]byte(`{"task":"join_room","room":"r1"}`),
		map[string]string{"source": "backend"},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, messageID)

	messages := srv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, messageID, messages[0].ID)
	assert.JSONEq(t, `{"task":"join_room","room":"r1"}`, string(messages[0].Data))
	assert.Equal(t, "backend", messages[0].Attributes["source"])
}

func TestPublisher_PublishMissingTopic(t *testing.T) {
	_, opts := newEmulator(t)

	client, err := pubsub.NewClient(context.Background(), testProject, nil, opts...)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, err = client.Publisher("does-not-exist", time.Second).
		Publish(context.Background(), []byte("{}"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish to does-not-exist")
}

// silentListener accepts TCP connections and never answers on them.
func silentListener(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return ln.Addr().String()
}

func TestPublisher_PublishTimesOut(t *testing.T) {
	addr := silentListener(t)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	client, err := pubsub.NewClient(context.Background(), testProject, nil, option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() {
		// Close flushes outstanding publishes, which an unresponsive server
		// never acks.
		go func() {
			_ = client.Close()
			_ = conn.Close()
		}()
	})

	timeout := 300 * time.Millisecond
	start := time.Now()
	_, err = client.Publisher("voicecare-tasks", timeout).
		Publish(context.Background(), []byte("{}"), nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "publish to voicecare-tasks")
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+2*time.Second)
}

func TestPublisher_PublishAfterClose(t *testing.T) {
	_, opts := newEmulator(t, "voicecare-tasks")

	client, err := pubsub.NewClient(context.Background(), testProject, nil, opts...)
	require.NoError(t, err)

	publisher := client.Publisher("voicecare-tasks", time.Second)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close(), "second close is a no-op")

	_, err = publisher.Publish(context.Background(), []byte("{}"), nil)
	assert.ErrorIs(t, err, pubsub.ErrClientClosed)
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := pubsub.NewClient(context.Background(), "", nil)
	assert.Error(t, err)
}

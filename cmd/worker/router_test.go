package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicecare/relay/internal/dispatch"
	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/mocks"
	"github.com/voicecare/relay/internal/platform/logger"
	"github.com/voicecare/relay/internal/service/auth"
)

type workerFixture struct {
	connector *mocks.MockRoomConnector
	sessions  *dispatch.SessionManager
	sink      *mocks.MockDeadLetterSink
	issuer    auth.TokenIssuer
	server    *httptest.Server
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	l, _ := logger.NewTestLogger(t)

	issuer, err := auth.NewTokenIssuer("APIdevkey0001", "dev-secret-with-enough-length")
	require.NoError(t, err)

	connector := &mocks.MockRoomConnector{}
	sessions := dispatch.NewSessionManager(issuer, connector, dispatch.SessionManagerConfig{
		TokenTTL: 30 * time.Minute,
	}, l)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sessions.Stop(ctx)
	})

	sink := &mocks.MockDeadLetterSink{}
	dispatcher, err := dispatch.NewDispatcher(sessions, dispatch.NewEchoResponder(0, l), sink, l)
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(l, dispatcher))
	t.Cleanup(srv.Close)

	return &workerFixture{
		connector: connector,
		sessions:  sessions,
		sink:      sink,
		issuer:    issuer,
		server:    srv,
	}
}

func (f *workerFixture) push(t *testing.T, body []byte) (int, string) {
	t.Helper()
	resp, err := http.Post(f.server.URL+"/pubsub/push", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.String()
}

func pushBody(t *testing.T, data string) []byte {
	t.Helper()
	body, err := json.Marshal(dispatch.NewEnvelope([]byte(data), nil, "m-1", "projects/p/subscriptions/s"))
	require.NoError(t, err)
	return body
}

func TestWorker_Health(t *testing.T) {
	f := newWorkerFixture(t)

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWorker_JoinRoomAcksImmediately(t *testing.T) {
	f := newWorkerFixture(t)

	status, body := f.push(t, pushBody(t, `{"task":"join_room","room":"r1"}`))

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
	assert.Equal(t, 1, f.sessions.Active(), "session outlives the push request")

	require.Eventually(t, func() bool { return len(f.connector.Tokens()) == 1 }, time.Second, 5*time.Millisecond)
	claims, err := f.issuer.ValidateToken(context.Background(), f.connector.Tokens()[0])
	require.NoError(t, err)
	assert.Equal(t, domain.WorkerIdentity, claims.Identity)
	assert.Equal(t, "r1", claims.Video.Room)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestWorker_AcksEverything(t *testing.T) {
	f := newWorkerFixture(t)

	for _, data := range []string{
		`{"task":"ai_response","room":"r1","user_id":"u1","text":"hello"}`,
		`{"task":"task","user_id":"u1","text":"hello"}`,
		`{"task":"unknown"}`,
		`{{{`,
	} {
		status, body := f.push(t, pushBody(t, data))
		assert.Equal(t, http.StatusOK, status, data)
		assert.JSONEq(t, `{"status":"ok"}`, body, data)
	}

	assert.Len(t, f.sink.Letters(), 2)
	assert.Equal(t, 0, f.sessions.Active())
}

func TestWorker_RejectsMissingMessage(t *testing.T) {
	f := newWorkerFixture(t)

	status, body := f.push(t, []byte(`{"subscription":"s"}`))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "invalid Pub/Sub message format")
	assert.Empty(t, f.sink.Letters())
}

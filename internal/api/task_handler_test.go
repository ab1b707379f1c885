package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicecare/relay/internal/api"
	"github.com/voicecare/relay/internal/api/shared"
	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/mocks"
)

func doJSON(t *testing.T, handler http.HandlerFunc, body string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	req = req.WithContext(shared.WithTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	var gotTask domain.Task
	var gotAuth string
	tasks := &mocks.MockTaskService{
		SubmitFn: func(_ context.Context, task domain.Task, authHeader string) (string, error) {
			gotTask, gotAuth = task, authHeader
			return "msg-1", nil
		},
	}
	h := api.NewTaskHandler(tasks, &mocks.MockTokenService{})

	rec := doJSON(t, h.CreateTask, `{"user_id":"u1","text":"call mum"}`, "Bearer abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"accepted","task":{"user_id":"u1","text":"call mum"},"message_id":"msg-1"}`,
		rec.Body.String())
	assert.Equal(t, domain.Task{Kind: domain.TaskKindGeneric, UserID: "u1", Text: "call mum"}, gotTask)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestTaskHandler_CreateTaskErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed json",
			body:       `{"user_id":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "missing text",
			body:       `{"user_id":"u1"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid text: required field",
		},
		{
			name:       "missing user id",
			body:       `{"text":"hi"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid user_id: required field",
		},
		{
			name:       "unauthorized",
			body:       `{"user_id":"u1","text":"hi"}`,
			serviceErr: domain.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantError:  "missing auth",
		},
		{
			name:       "publish failure",
			body:       `{"user_id":"u1","text":"hi"}`,
			serviceErr: domain.NewDependencyError("Pub/Sub publish", context.DeadlineExceeded),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Pub/Sub publish failed: context deadline exceeded",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tasks := &mocks.MockTaskService{Err: tc.serviceErr}
			h := api.NewTaskHandler(tasks, &mocks.MockTokenService{})

			rec := doJSON(t, h.CreateTask, tc.body, "Bearer abc")

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.wantError, resp.Error)
			assert.Equal(t, "trace-1", resp.TraceID)
		})
	}
}

func TestTaskHandler_IssueToken(t *testing.T) {
	t.Parallel()

	tokens := &mocks.MockTokenService{
		IssueClientTokenFn: func(_ context.Context, room, identity, _ string) (string, error) {
			return "tok-" + room + "-" + identity, nil
		},
	}
	h := api.NewTaskHandler(&mocks.MockTaskService{}, tokens)

	rec := doJSON(t, h.IssueToken, `{"room":"r1","identity":"alice"}`, "Bearer abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok-r1-alice","room":"r1","identity":"alice"}`, rec.Body.String())
}

func TestTaskHandler_IssueTokenErrors(t *testing.T) {
	t.Parallel()

	h := api.NewTaskHandler(&mocks.MockTaskService{}, &mocks.MockTokenService{
		Err: domain.NewDependencyError("LiveKit token signing", errors.New("key is invalid")),
	})

	rec := doJSON(t, h.IssueToken, `{"room":"r1"}`, "Bearer abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid identity: required field", decodeError(t, rec).Error)

	rec = doJSON(t, h.IssueToken, `{"room":"r1","identity":"alice"}`, "Bearer abc")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "LiveKit token signing failed: key is invalid", decodeError(t, rec).Error)
}

func TestTaskHandler_StartRoom(t *testing.T) {
	t.Parallel()

	var gotRoom string
	tasks := &mocks.MockTaskService{
		StartRoomFn: func(_ context.Context, room, _ string) (string, error) {
			gotRoom = room
			return "msg-2", nil
		},
	}
	h := api.NewTaskHandler(tasks, &mocks.MockTokenService{})

	rec := doJSON(t, h.StartRoom, `{"room":"r1"}`, "Bearer abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"worker-notified","room":"r1","message_id":"msg-2"}`, rec.Body.String())
	assert.Equal(t, "r1", gotRoom)

	rec = doJSON(t, h.StartRoom, `{}`, "Bearer abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_RedactsDependencyErrors(t *testing.T) {
	t.Parallel()

	leaked := errors.New("rpc error: token=supersecretvalue rejected")
	h := api.NewTaskHandler(&mocks.MockTaskService{
		Err: domain.NewDependencyError("Pub/Sub publish", leaked),
	}, &mocks.MockTokenService{})

	rec := doJSON(t, h.StartRoom, `{"room":"r1"}`, "Bearer abc")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "supersecretvalue")
	assert.Contains(t, decodeError(t, rec).Error, "Pub/Sub publish failed")
}

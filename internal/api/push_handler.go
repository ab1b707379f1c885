package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/voicecare/relay/internal/api/shared"
	"github.com/voicecare/relay/internal/dispatch"
	"github.com/voicecare/relay/internal/platform/logger"
)

// PushHandler receives Pub/Sub push deliveries for the worker.
type PushHandler struct {
	dispatcher *dispatch.Dispatcher
	maxBody    int64
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(dispatcher *dispatch.Dispatcher) *PushHandler {
	return &PushHandler{dispatcher: dispatcher, maxBody: dispatch.MaxPushBodyBytes}
}

// Push handles POST /pubsub/push requests. Anything shaped like an envelope
// is acknowledged with 200 whatever happens to the task inside it.
func (h *PushHandler) Push(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		// Oversize bodies are dead-lettered and still acknowledged.
		outcome := h.dispatcher.RejectOversize(r.Context(), tooLarge.Limit)
		logger.FromContext(r.Context()).Warn("push body too large, acknowledged",
			"limit", tooLarge.Limit,
			"outcome", outcome)
		shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "ok"})
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, dispatch.ErrInvalidEnvelope.Error(), err)
		return
	}

	envelope, err := dispatch.ParseEnvelope(body)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, dispatch.ErrInvalidEnvelope.Error(), err)
		return
	}

	outcome := h.dispatcher.Dispatch(r.Context(), envelope.Message)
	logger.FromContext(r.Context()).Debug("push acknowledged",
		"message_id", envelope.Message.MessageID,
		"subscription", envelope.Subscription,
		"outcome", outcome)

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "ok"})
}

// Health handles GET /health requests
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "ok"})
}

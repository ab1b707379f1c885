package api

import (
	"net/http"

	"github.com/voicecare/relay/internal/api/shared"
	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/service"
)

// TaskHandler serves the backend's task, token and room endpoints.
type TaskHandler struct {
	taskService  service.TaskService
	tokenService service.TokenService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, tokenService service.TokenService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		tokenService: tokenService,
	}
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	task := domain.Task{Kind: domain.TaskKindGeneric, UserID: req.UserID, Text: req.Text}
	messageID, err := h.taskService.Submit(r.Context(), task, r.Header.Get("Authorization"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CreateTaskResponse{
		Message:   "accepted",
		Task:      req,
		MessageID: messageID,
	})
}

// IssueToken handles POST /api/livekit-token requests
func (h *TaskHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.tokenService.IssueClientToken(r.Context(), req.Room, req.Identity, r.Header.Get("Authorization"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		Token:    token,
		Room:     req.Room,
		Identity: req.Identity,
	})
}

// StartRoom handles POST /api/start-room requests
func (h *TaskHandler) StartRoom(w http.ResponseWriter, r *http.Request) {
	var req StartRoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	messageID, err := h.taskService.StartRoom(r.Context(), req.Room, r.Header.Get("Authorization"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StartRoomResponse{
		Message:   "worker-notified",
		Room:      req.Room,
		MessageID: messageID,
	})
}

// decode parses and validates the body, writing a 400 on failure.
func (h *TaskHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

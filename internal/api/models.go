package api

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	UserID string `json:"user_id" validate:"required,max=256"`
	Text   string `json:"text" validate:"required,max=8192"`
}

// CreateTaskResponse echoes the accepted task with its queue message id.
type CreateTaskResponse struct {
	Message   string            `json:"message"`
	Task      CreateTaskRequest `json:"task"`
	MessageID string            `json:"message_id"`
}

// TokenRequest is the body of POST /api/livekit-token.
type TokenRequest struct {
	Room     string `json:"room" validate:"required,max=256"`
	Identity string `json:"identity" validate:"required,max=256"`
}

// TokenResponse carries a room token for the requested identity.
type TokenResponse struct {
	Token    string `json:"token"`
	Room     string `json:"room"`
	Identity string `json:"identity"`
}

// StartRoomRequest is the body of POST /api/start-room.
type StartRoomRequest struct {
	Room string `json:"room" validate:"required,max=256"`
}

// StartRoomResponse confirms the worker was asked to join.
type StartRoomResponse struct {
	Message   string `json:"message"`
	Room      string `json:"room"`
	MessageID string `json:"message_id"`
}

// StatusResponse is returned by health checks and push acknowledgements.
type StatusResponse struct {
	Status string `json:"status"`
}

// Package service contains the backend's use cases: accepting user tasks,
// asking the worker to join a room, and issuing room tokens to clients.
//
// Services receive their collaborators (queue publisher, token issuer) through
// constructor injection and never reach for process-wide clients. Errors are
// classified with the sentinels in internal/domain so the API layer can map
// them to status codes.
package service

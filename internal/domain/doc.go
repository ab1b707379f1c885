// Package domain contains the task model exchanged between the backend and
// the worker, together with the error taxonomy shared by both services.
// It has no knowledge of HTTP, Pub/Sub or LiveKit.
package domain

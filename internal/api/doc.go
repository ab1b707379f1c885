// Package api contains the HTTP handlers of the backend and worker services.
// Handlers translate requests into service calls and map domain errors to
// status codes; routing lives in each command's router.
package api

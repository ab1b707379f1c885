// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. A human-friendly text format backed by
// charmbracelet/log is available for local development.
package logger

package service

import "fmt"

// ServiceError reports a service misconfiguration detected at construction.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_service")
	Operation string
	// Message is a human-readable description of the error
	Message string
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Package mocks provides centralized mock implementations for testing.
//
// Each mock implements one interface with function fields for each method.
// When a function field is nil the mock falls back to its default values,
// so tests only configure the behavior they care about. Mocks that record
// calls are safe for concurrent use.
//
// Usage:
//
//	publisher := &mocks.MockPublisher{MessageID: "m-1"}
//	svc, _ := service.NewTaskService(publisher, logger)
//	// ... exercise svc ...
//	assert.Equal(t, 1, publisher.CallCount())
package mocks

// Package dispatch implements the worker side of the task queue.
//
// Pub/Sub pushes each message to the worker over HTTP. The Dispatcher decodes
// the push envelope into a domain.Task and routes it by kind:
//
//   - join_room tasks are handed to the SessionManager, which joins the room
//     in the background and keeps the session open until the room empties,
//     the session times out or the worker stops.
//   - ai_response tasks are answered by a Responder.
//   - generic user tasks are logged and dropped.
//   - malformed payloads, unknown kinds and invalid tasks go to a
//     DeadLetterSink.
//
// Every outcome is acknowledged. Pub/Sub redelivers anything that is not, and
// none of these outcomes improves on a retry.
package dispatch

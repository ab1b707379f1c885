// Package pubsub publishes encoded tasks to Google Cloud Pub/Sub topics.
//
// A single Client is created per process and hands out one Publisher per
// topic. Publishers wait for the server acknowledgement of each message, but
// never longer than their configured timeout, so HTTP handlers fail fast when
// the queue is unreachable.
package pubsub

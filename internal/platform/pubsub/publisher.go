package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// DefaultPublishTimeout bounds how long Publish waits for the server ack.
const DefaultPublishTimeout = 10 * time.Second

// ErrClientClosed is returned by Publish after the owning Client is closed.
var ErrClientClosed = errors.New("pubsub client closed")

// Client owns the underlying Pub/Sub connection and the topics opened on it.
type Client struct {
	client *pubsub.Client
	logger *slog.Logger

	mu     sync.Mutex
	topics []*pubsub.Topic
	closed bool
}

// NewClient connects to Pub/Sub for projectID. Options are passed through to
// the underlying client, which lets tests point it at an emulator.
func NewClient(ctx context.Context, projectID string, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub: project id is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger.With("component", "pubsub"),
	}, nil
}

// Publisher returns a Publisher for topicID. A non-positive timeout selects
// DefaultPublishTimeout.
func (c *Client) Publisher(topicID string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	topic := c.client.Topic(topicID)

	c.mu.Lock()
	c.topics = append(c.topics, topic)
	c.mu.Unlock()

	return &Publisher{
		owner:   c,
		topic:   topic,
		topicID: topicID,
		timeout: timeout,
		logger:  c.logger.With("topic", topicID),
	}
}

// Close flushes every topic opened through this client and closes the
// connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	topics := c.topics
	c.topics = nil
	c.mu.Unlock()

	for _, topic := range topics {
		topic.Stop()
	}
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Publisher publishes messages to a single topic.
type Publisher struct {
	owner   *Client
	topic   *pubsub.Topic
	topicID string
	timeout time.Duration
	logger  *slog.Logger
}

// Topic returns the topic id this publisher writes to.
func (p *Publisher) Topic() string {
	return p.topicID
}

// Publish sends data with attributes and blocks until the server assigns a
// message id, the publish timeout elapses or ctx is cancelled.
func (p *Publisher) Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error) {
	if p.owner.isClosed() {
		return "", ErrClientClosed
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attributes,
	})

	messageID, err := result.Get(ctx)
	if err != nil {
		p.logger.DebugContext(ctx, "publish failed",
			"error", err,
			"elapsed", time.Since(start))
		return "", fmt.Errorf("publish to %s: %w", p.topicID, err)
	}

	p.logger.DebugContext(ctx, "message published",
		"message_id", messageID,
		"bytes", len(data),
		"elapsed", time.Since(start))
	return messageID, nil
}

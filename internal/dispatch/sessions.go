package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/service/auth"
)

var (
	// ErrSessionLimit is returned when MaxSessions sessions are already open.
	ErrSessionLimit = errors.New("session limit reached")

	// ErrManagerStopped is returned by Start after Stop has been called.
	ErrManagerStopped = errors.New("session manager stopped")
)

// RoomConnector joins a room and blocks until the session ends or ctx is done.
type RoomConnector interface {
	Join(ctx context.Context, room, token string) error
}

// SessionManagerConfig holds configuration for the session manager.
type SessionManagerConfig struct {
	// Identity is the participant identity the worker joins as.
	Identity string

	// TokenTTL is the lifetime of the token issued for each session.
	TokenTTL time.Duration

	// SessionTimeout bounds how long a single session may stay open.
	SessionTimeout time.Duration

	// MaxSessions caps the number of concurrently open sessions.
	MaxSessions int
}

// DefaultSessionManagerConfig returns a SessionManagerConfig with reasonable defaults
func DefaultSessionManagerConfig() SessionManagerConfig {
	return SessionManagerConfig{
		Identity:       domain.WorkerIdentity,
		TokenTTL:       30 * time.Minute,
		SessionTimeout: 30 * time.Minute,
		MaxSessions:    16,
	}
}

// SessionInfo describes one open session.
type SessionInfo struct {
	ID        string
	Room      string
	StartedAt time.Time
}

// SessionManager owns the lifetime of room sessions so push requests can be
// acknowledged as soon as a session is handed off.
type SessionManager struct {
	issuer    auth.TokenIssuer
	connector RoomConnector
	config    SessionManagerConfig
	logger    *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]SessionInfo
	stopped  bool
}

// NewSessionManager creates a SessionManager. Zero config fields take their
// defaults.
func NewSessionManager(
	issuer auth.TokenIssuer,
	connector RoomConnector,
	config SessionManagerConfig,
	logger *slog.Logger,
) *SessionManager {
	defaults := DefaultSessionManagerConfig()
	if config.Identity == "" {
		config.Identity = defaults.Identity
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaults.TokenTTL
	}
	if config.SessionTimeout <= 0 {
		config.SessionTimeout = defaults.SessionTimeout
	}
	if config.MaxSessions <= 0 {
		config.MaxSessions = defaults.MaxSessions
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SessionManager{
		issuer:     issuer,
		connector:  connector,
		config:     config,
		logger:     logger.With("component", "session_manager"),
		ctx:        ctx,
		cancelFunc: cancel,
		sessions:   make(map[string]SessionInfo),
	}
}

// Start issues a worker token for room and opens the session in the
// background. It returns once the session is handed off; ctx only bounds the
// token issuance.
func (m *SessionManager) Start(ctx context.Context, room string) error {
	if room == "" {
		return domain.NewValidationError("room", "is required")
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrManagerStopped
	}
	if len(m.sessions) >= m.config.MaxSessions {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d sessions open", ErrSessionLimit, m.config.MaxSessions)
	}
	info := SessionInfo{ID: uuid.NewString(), Room: room, StartedAt: time.Now()}
	m.sessions[info.ID] = info
	m.wg.Add(1)
	m.mu.Unlock()

	token, err := m.issuer.IssueToken(ctx, room, m.config.Identity, m.config.TokenTTL)
	if err != nil {
		m.finish(info.ID)
		return err
	}

	m.logger.InfoContext(ctx, "joining room",
		"room", room,
		"identity", m.config.Identity,
		"session_id", info.ID)

	go m.run(info, token)
	return nil
}

func (m *SessionManager) run(info SessionInfo, token string) {
	defer m.finish(info.ID)

	ctx, cancel := context.WithTimeout(m.ctx, m.config.SessionTimeout)
	defer cancel()

	log := m.logger.With("room", info.Room, "session_id", info.ID)
	err := m.connector.Join(ctx, info.Room, token)
	duration := time.Since(info.StartedAt)

	switch {
	case err != nil:
		log.Error("room session failed", "error", err, "duration", duration)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Info("room session timed out", "duration", duration)
	default:
		log.Info("room session ended", "duration", duration)
	}
}

func (m *SessionManager) finish(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	m.wg.Done()
}

// Active returns the number of open sessions.
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sessions returns a snapshot of the open sessions.
func (m *SessionManager) Sessions() []SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Stop rejects new sessions, cancels the open ones and waits for them to
// close or for ctx to be done.
func (m *SessionManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	open := len(m.sessions)
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "stopping session manager", "open_sessions", open)
	m.cancelFunc()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for sessions to close: %w", ctx.Err())
	}
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/service/auth"
)

// TokenService hands out room tokens to clients.
type TokenService interface {
	// IssueClientToken returns a token for identity in room, valid for the
	// configured client TTL.
	IssueClientToken(ctx context.Context, room, identity, authHeader string) (string, error)
}

type tokenServiceImpl struct {
	issuer auth.TokenIssuer
	ttl    time.Duration
	logger *slog.Logger
}

// NewTokenService creates a TokenService issuing tokens that live for ttl.
func NewTokenService(issuer auth.TokenIssuer, ttl time.Duration, logger *slog.Logger) (TokenService, error) {
	if issuer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "issuer cannot be nil"}
	}
	if ttl <= 0 {
		return nil, &ServiceError{Operation: "create_service", Message: "ttl must be positive"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tokenServiceImpl{
		issuer: issuer,
		ttl:    ttl,
		logger: logger.With("component", "token_service"),
	}, nil
}

// IssueClientToken checks the caller presented a credential and issues the token.
func (s *tokenServiceImpl) IssueClientToken(ctx context.Context, room, identity, authHeader string) (string, error) {
	if authHeader == "" {
		return "", domain.ErrUnauthorized
	}
	token, err := s.issuer.IssueToken(ctx, room, identity, s.ttl)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to issue client token",
			"error", err,
			"room", room,
			"identity", identity)
		return "", err
	}
	return token, nil
}

package mocks

import (
	"context"
	"time"

	"github.com/voicecare/relay/internal/service/auth"
)

// MockTokenIssuer implements auth.TokenIssuer for testing
type MockTokenIssuer struct {
	// IssueTokenFn allows test cases to mock the IssueToken behavior
	IssueTokenFn func(ctx context.Context, room, identity string, ttl time.Duration) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.TokenIssuer = (*MockTokenIssuer)(nil)

// IssueToken implements the auth.TokenIssuer interface
func (m *MockTokenIssuer) IssueToken(ctx context.Context, room, identity string, ttl time.Duration) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, room, identity, ttl)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.TokenIssuer interface
func (m *MockTokenIssuer) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

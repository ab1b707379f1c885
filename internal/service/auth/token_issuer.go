// Package auth issues and verifies LiveKit room capability tokens.
package auth

import (
	"context"
	"time"
)

// TokenIssuer defines operations for managing room capability tokens.
type TokenIssuer interface {
	// IssueToken creates a signed token that lets identity join room with
	// publish and subscribe rights until ttl elapses.
	IssueToken(ctx context.Context, room, identity string, ttl time.Duration) (string, error)

	// ValidateToken verifies the signature and time bounds of a token and
	// returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// VideoGrant is the room capability section of a LiveKit token.
type VideoGrant struct {
	Room         string `json:"room,omitempty"`
	RoomJoin     bool   `json:"roomJoin,omitempty"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

// Claims represents the verified contents of a capability token.
type Claims struct {
	// APIKey is the issuer (iss) of the token.
	APIKey string
	// Identity is the participant identity (sub).
	Identity  string
	Name      string
	Video     VideoGrant
	NotBefore time.Time
	ExpiresAt time.Time
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/voicecare/relay/internal/domain"
	"github.com/voicecare/relay/internal/platform/logger"
)

// hmacTokenIssuer signs LiveKit tokens with the API secret using HMAC-SHA256,
// the scheme LiveKit servers verify.
type hmacTokenIssuer struct {
	apiKey     string
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

// livekitClaims mirrors the claim layout LiveKit expects.
type livekitClaims struct {
	Name  string      `json:"name,omitempty"`
	Video *VideoGrant `json:"video,omitempty"`
	jwt.RegisteredClaims
}

var _ TokenIssuer = (*hmacTokenIssuer)(nil)

// NewTokenIssuer creates a TokenIssuer for the given LiveKit API key pair.
func NewTokenIssuer(apiKey, apiSecret string) (TokenIssuer, error) {
	return newTokenIssuer(apiKey, apiSecret, time.Now)
}

func newTokenIssuer(apiKey, apiSecret string, timeFunc func() time.Time) (*hmacTokenIssuer, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, ErrMissingCredentials
	}
	return &hmacTokenIssuer{
		apiKey:     apiKey,
		signingKey: []byte(apiSecret),
		timeFunc:   timeFunc,
		clockSkew:  time.Minute,
	}, nil
}

// IssueToken creates a signed capability token for identity in room.
func (s *hmacTokenIssuer) IssueToken(
	ctx context.Context,
	room, identity string,
	ttl time.Duration,
) (string, error) {
	if room == "" {
		return "", domain.NewValidationError("room", "is required")
	}
	if identity == "" {
		return "", domain.NewValidationError("identity", "is required")
	}
	if ttl <= 0 {
		return "", domain.NewValidationError("ttl", "must be positive")
	}

	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := livekitClaims{
		Name: identity,
		Video: &VideoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign room token",
			"error", err,
			"room", room,
			"identity", identity,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", domain.NewDependencyError("LiveKit token signing", err)
	}

	log.Debug("room token issued",
		"room", room,
		"identity", identity,
		"expiry", claims.ExpiresAt.Time)
	return signed, nil
}

// ValidateToken parses tokenString and checks it was signed by this issuer.
func (s *hmacTokenIssuer) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&livekitClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.apiKey),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("room token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("room token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("room token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*livekitClaims)
	if !ok || !token.Valid || claims.Video == nil {
		return nil, ErrInvalidToken
	}

	out := &Claims{
		APIKey:   claims.Issuer,
		Identity: claims.Subject,
		Name:     claims.Name,
		Video:    *claims.Video,
	}
	if claims.NotBefore != nil {
		out.NotBefore = claims.NotBefore.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

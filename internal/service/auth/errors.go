package auth

import "errors"

var (
	// ErrInvalidToken is returned when a token cannot be parsed or its signature
	// does not verify against the API secret.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrMissingCredentials is returned when the API key pair is incomplete.
	ErrMissingCredentials = errors.New("livekit api key and secret are required")
)

// Package livekit joins LiveKit rooms as a server-side participant.
package livekit

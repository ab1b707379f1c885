package livekit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
)

// ErrMissingToken is returned by Join when no token is supplied.
var ErrMissingToken = errors.New("livekit: token is required")

// TrackHandler is called for every remote track the session subscribes to.
type TrackHandler func(track *webrtc.TrackRemote, participantIdentity string)

// RoomClient opens room sessions against a single LiveKit server.
type RoomClient struct {
	url    string
	logger *slog.Logger

	// OnTrack overrides the default handler, which logs each subscription.
	OnTrack TrackHandler
}

// NewRoomClient creates a client for the server at serverURL. HTTP URLs are
// converted to their websocket equivalents.
func NewRoomClient(serverURL string, logger *slog.Logger) (*RoomClient, error) {
	wsURL, err := WebsocketURL(serverURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomClient{
		url:    wsURL,
		logger: logger.With("component", "livekit"),
	}, nil
}

// URL returns the websocket URL sessions connect to.
func (c *RoomClient) URL() string {
	return c.url
}

// Join connects to room with token and blocks until ctx is done or the server
// disconnects the session. The session is always disconnected on return.
func (c *RoomClient) Join(ctx context.Context, room, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	log := c.logger.With("room", room)
	onTrack := c.OnTrack
	if onTrack == nil {
		onTrack = func(track *webrtc.TrackRemote, identity string) {
			log.Info("track subscribed",
				"participant", identity,
				"track_id", track.ID(),
				"kind", track.Kind().String(),
				"codec", track.Codec().MimeType)
		}
	}

	disconnected := make(chan struct{})
	var once sync.Once
	callback := &lksdk.RoomCallback{
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackSubscribed: func(
				track *webrtc.TrackRemote,
				_ *lksdk.RemoteTrackPublication,
				rp *lksdk.RemoteParticipant,
			) {
				onTrack(track, rp.Identity())
			},
		},
		OnDisconnected: func() {
			once.Do(func() { close(disconnected) })
		},
	}

	lkRoom, err := lksdk.ConnectToRoomWithToken(c.url, token, callback)
	if err != nil {
		return fmt.Errorf("connect to room %s: %w", room, err)
	}
	defer lkRoom.Disconnect()

	log.Info("joined room", "identity", lkRoom.LocalParticipant.Identity())

	select {
	case <-ctx.Done():
		log.Info("leaving room", "reason", ctx.Err())
		return nil
	case <-disconnected:
		log.Info("room disconnected")
		return nil
	}
}

// WebsocketURL maps http(s) server URLs to ws(s). Websocket URLs are returned
// unchanged.
func WebsocketURL(serverURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return "", fmt.Errorf("parse livekit url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("livekit url %q: unsupported scheme %q", serverURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("livekit url %q: missing host", serverURL)
	}
	return u.String(), nil
}

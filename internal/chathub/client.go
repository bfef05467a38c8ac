package chathub

import "pairwave/backend/internal/models"

// Client is the interface for one live realtime session. It abstracts the
// underlying transport so the hub can manage different connection types
// uniformly. A client is bound to one (user, peer, room) triple for its
// entire lifetime.
type Client interface {
	// GetUserID returns the identity that opened the session.
	GetUserID() uint
	// GetPeerID returns the identity the session is talking to.
	GetPeerID() uint
	// GetRoomID returns the canonical room the session belongs to.
	GetRoomID() string
	// GetSessionID returns the unique id of this connection.
	GetSessionID() string

	// GetSendChannel returns the channel the hub pushes delivery events
	// into. It is a send-only channel.
	GetSendChannel() chan<- models.DeliveryEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close signals the client to shut down. Safe to call more than once;
	// the hub owns the call.
	Close()
}

package chathub

import (
	"encoding/json"
	"errors"

	"pairwave/backend/internal/models"
	"pairwave/backend/internal/storage"

	"go.uber.org/zap"
)

// roomPattern matches every canonical room channel on the wire.
const roomPattern = "chat_*"

// RoomEvent is a delivery event tagged with the room it belongs to.
type RoomEvent struct {
	RoomID string
	Event  models.DeliveryEvent
}

// Broadcaster carries room events between the hub and whatever backing the
// deployment uses: an in-process loopback for a single instance, Redis
// pub/sub when several instances share the room space. The hub consumes
// Events and fans out to its local sessions either way.
type Broadcaster interface {
	Publish(roomID string, ev models.DeliveryEvent) error
	Events() <-chan RoomEvent
	Close() error
}

// ErrFanOutFull is returned by the loopback backing when its buffer is
// exhausted; the hub falls back to direct local delivery.
var ErrFanOutFull = errors.New("chathub: fan-out buffer full")

// LoopbackBroadcaster keeps fan-out inside the process.
type LoopbackBroadcaster struct {
	events chan RoomEvent
}

func NewLoopbackBroadcaster() *LoopbackBroadcaster {
	return &LoopbackBroadcaster{events: make(chan RoomEvent, 256)}
}

func (b *LoopbackBroadcaster) Publish(roomID string, ev models.DeliveryEvent) error {
	select {
	case b.events <- RoomEvent{RoomID: roomID, Event: ev}:
		return nil
	default:
		return ErrFanOutFull
	}
}

func (b *LoopbackBroadcaster) Events() <-chan RoomEvent { return b.events }

func (b *LoopbackBroadcaster) Close() error {
	close(b.events)
	return nil
}

// RedisBroadcaster publishes through Redis pub/sub so every instance with a
// session in the room sees the event, this instance included.
type RedisBroadcaster struct {
	storage storage.Storage
	events  chan RoomEvent
	pubsub  pubSubCloser
	log     *zap.Logger
}

type pubSubCloser interface {
	Close() error
}

func NewRedisBroadcaster(s storage.Storage, log *zap.Logger) *RedisBroadcaster {
	b := &RedisBroadcaster{
		storage: s,
		events:  make(chan RoomEvent, 256),
		log:     log,
	}

	pubsub := s.SubscribeRoomEvents(roomPattern)
	b.pubsub = pubsub

	go func() {
		for msg := range pubsub.Channel() {
			var ev models.DeliveryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn("dropping malformed room event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			// The channel name is the canonical room id.
			b.events <- RoomEvent{RoomID: msg.Channel, Event: ev}
		}
		close(b.events)
	}()

	return b
}

func (b *RedisBroadcaster) Publish(roomID string, ev models.DeliveryEvent) error {
	return b.storage.PublishRoomEvent(roomID, ev)
}

func (b *RedisBroadcaster) Events() <-chan RoomEvent { return b.events }

func (b *RedisBroadcaster) Close() error {
	return b.pubsub.Close()
}

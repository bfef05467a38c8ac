package chathub

import (
	"pairwave/backend/internal/models"
	"pairwave/backend/internal/storage"

	"go.uber.org/zap"
)

// Notifier records the new-message event for a recipient.
type Notifier interface {
	NewMessage(recipient, sender uint)
}

// InboundMessage is one message event read off a live session, headed for
// persistence and fan-out.
type InboundMessage struct {
	RoomID     string
	SenderID   uint
	ReceiverID uint
	Content    string

	// Sender is the originating session, kept so a failed append can be
	// reported privately without touching the rest of the room.
	Sender Client
}

// Hub owns room membership and drives message flow: persist, notify, fan
// out. All state below is touched only by the Run goroutine; sessions talk
// to the hub exclusively through its channels, which is what makes
// concurrent join/leave/send safe.
type Hub struct {
	// Rooms maps a canonical room id to its currently connected sessions.
	// Rooms are created on first join and garbage-collected when the last
	// session leaves. Exported for tests; never mutate outside Run.
	Rooms map[string]map[Client]bool

	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan InboundMessage

	Storage     storage.Storage
	Notifier    Notifier
	Broadcaster Broadcaster
	Log         *zap.Logger
}

func NewHub(s storage.Storage, notifier Notifier, b Broadcaster, log *zap.Logger) *Hub {
	return &Hub{
		Rooms:        make(map[string]map[Client]bool),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan InboundMessage),
		Storage:      s,
		Notifier:     notifier,
		Broadcaster:  b,
		Log:          log,
	}
}

// Run is the hub's main loop. Incoming messages are handled one at a time,
// which serializes appends and keeps broadcast order identical to store
// order within every room.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterCh:
			h.addClient(client)

		case client := <-h.UnregisterCh:
			h.removeClient(client)

		case msg := <-h.IncomingCh:
			h.handleIncoming(msg)

		case ev, ok := <-h.Broadcaster.Events():
			if !ok {
				return
			}
			h.deliver(ev.RoomID, ev.Event)
		}
	}
}

func (h *Hub) addClient(client Client) {
	roomID := client.GetRoomID()
	if h.Rooms[roomID] == nil {
		h.Rooms[roomID] = make(map[Client]bool)
	}
	h.Rooms[roomID][client] = true
	h.Log.Info("session joined room",
		zap.String("room_id", roomID),
		zap.String("session_id", client.GetSessionID()),
		zap.Uint("user_id", client.GetUserID()))
}

func (h *Hub) removeClient(client Client) {
	roomID := client.GetRoomID()
	room, ok := h.Rooms[roomID]
	if !ok || !room[client] {
		return
	}
	delete(room, client)
	client.Close()
	if len(room) == 0 {
		delete(h.Rooms, roomID)
	}
	h.Log.Info("session left room",
		zap.String("room_id", roomID),
		zap.String("session_id", client.GetSessionID()),
		zap.Uint("user_id", client.GetUserID()))
}

// handleIncoming persists the message, records the notification and fans it
// out. A message that failed to persist is reported to the sender only and
// never broadcast.
func (h *Hub) handleIncoming(msg InboundMessage) {
	row := &models.Message{
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
	}
	if err := h.Storage.SaveMessage(row); err != nil {
		h.Log.Error("message append failed", zap.String("room_id", msg.RoomID), zap.Error(err))
		h.sendTo(msg.Sender, models.DeliveryEvent{Error: "message could not be saved, please retry"})
		return
	}

	h.Notifier.NewMessage(msg.ReceiverID, msg.SenderID)

	ev := models.DeliveryEvent{
		Message:   row.Content,
		SenderID:  row.SenderID,
		Timestamp: row.ClockTime(),
	}
	if err := h.Broadcaster.Publish(msg.RoomID, ev); err != nil {
		// The message is persisted; local sessions still get it directly
		// and remote ones catch up over the polling path.
		h.Log.Warn("room publish failed, delivering locally", zap.String("room_id", msg.RoomID), zap.Error(err))
		h.deliver(msg.RoomID, ev)
	}
}

// deliver fans an event out to every session in the room, the sender's own
// session included. Clients render the echoed copy instead of trusting a
// local one, so everyone displays the same order.
func (h *Hub) deliver(roomID string, ev models.DeliveryEvent) {
	for client := range h.Rooms[roomID] {
		h.sendTo(client, ev)
	}
}

// sendTo hands an event to one session without blocking. A session that
// stopped draining its buffer is evicted rather than allowed to stall the
// room. Sessions no longer in the registry are skipped: a late frame from
// an already-evicted sender must not reach its dead channel.
func (h *Hub) sendTo(client Client, ev models.DeliveryEvent) {
	if client == nil || !h.Rooms[client.GetRoomID()][client] {
		return
	}
	select {
	case client.GetSendChannel() <- ev:
	default:
		h.Log.Warn("session send buffer full, evicting",
			zap.String("session_id", client.GetSessionID()),
			zap.Uint("user_id", client.GetUserID()))
		h.removeClient(client)
	}
}

package chathub

import (
	"encoding/json"
	"sync"
	"time"

	"pairwave/backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 256
)

var validate = validator.New()

// WebSocketClient is the gorilla/websocket implementation of Client. One
// instance per live connection; the (user, peer, room) binding never
// changes after construction.
type WebSocketClient struct {
	UserID    uint
	PeerID    uint
	RoomID    string
	SessionID string

	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.DeliveryEvent
	Log  *zap.Logger

	// done stops the write pump. The Send channel itself is never closed,
	// so a late send from any goroutine is at worst dropped, never a panic.
	done      chan struct{}
	closeOnce sync.Once
}

func NewWebSocketClient(userID, peerID uint, conn *websocket.Conn, hub *Hub, log *zap.Logger) *WebSocketClient {
	return &WebSocketClient{
		UserID:    userID,
		PeerID:    peerID,
		RoomID:    RoomID(userID, peerID),
		SessionID: uuid.NewString(),
		Conn:      conn,
		Hub:       hub,
		Send:      make(chan models.DeliveryEvent, sendBuffer),
		Log:       log,
		done:      make(chan struct{}),
	}
}

func (c *WebSocketClient) GetUserID() uint                             { return c.UserID }
func (c *WebSocketClient) GetPeerID() uint                             { return c.PeerID }
func (c *WebSocketClient) GetRoomID() string                           { return c.RoomID }
func (c *WebSocketClient) GetSessionID() string                        { return c.SessionID }
func (c *WebSocketClient) GetSendChannel() chan<- models.DeliveryEvent { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close signals the write pump to stop. The read pump stops on its own
// once the connection closes.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump reads frames off the socket and feeds them to the hub. Invalid
// frames are answered privately and dropped; they never reach storage.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Warn("websocket read error",
					zap.String("session_id", c.SessionID),
					zap.Error(err))
			}
			break
		}

		var frame models.InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.reject("malformed message payload")
			continue
		}
		if err := validate.Struct(&frame); err != nil {
			c.reject("message must not be empty")
			continue
		}

		c.Hub.IncomingCh <- InboundMessage{
			RoomID:     c.RoomID,
			SenderID:   c.UserID,
			ReceiverID: c.PeerID,
			Content:    frame.Message,
			Sender:     c,
		}
	}
}

// reject pushes a private error frame back to this session only.
func (c *WebSocketClient) reject(reason string) {
	select {
	case c.Send <- models.DeliveryEvent{Error: reason}:
	default:
	}
}

// writePump pushes delivery events from the Send channel onto the socket
// and keeps the connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case ev := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(ev)
			if err != nil {
				c.Log.Error("failed to encode delivery event", zap.String("session_id", c.SessionID), zap.Error(err))
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Drain whatever queued up while we held the writer.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				extra, _ := json.Marshal(<-c.Send)
				w.Write([]byte("\n"))
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package models

// InboundFrame is the single frame shape a connected client may send.
type InboundFrame struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// DeliveryEvent is what every session in a room receives when a message is
// delivered, the sender's own session included. When Error is set the frame
// is a private notice to one session and never crosses the room.
type DeliveryEvent struct {
	Message   string `json:"message"`
	SenderID  uint   `json:"sender_id"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

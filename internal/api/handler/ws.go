package handler

import (
	"net/http"

	"pairwave/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from another origin. Lock down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeChat opens a realtime session between the caller and a peer. The
// consent check happens before the upgrade: without mutual interest the
// request is rejected cleanly and no room is ever joined.
func (h *Handler) ServeChat(c *gin.Context) {
	viewerID := currentUserID(c)

	peerID, err := parseID(c.Param("peerID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}
	if peerID == viewerID {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot open a chat with yourself"})
		return
	}

	ok, err := h.Gate.HasMutualConsent(viewerID, peerID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "consent check failed"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "chat requires mutual interest"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Uint("user_id", viewerID), zap.Error(err))
		return
	}

	client := chathub.NewWebSocketClient(viewerID, peerID, conn, h.Hub, h.Log)
	h.Hub.RegisterCh <- client
	client.Run()
}

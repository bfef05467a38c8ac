package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first, and
// marks them read, mirroring the behavior of opening the notification
// screen.
func (h *Handler) ListNotifications(c *gin.Context) {
	viewerID := currentUserID(c)

	notes, err := h.Storage.ListNotifications(viewerID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	if err := h.Storage.MarkNotificationsRead(viewerID); err != nil {
		h.Log.Warn("failed to mark notifications read")
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

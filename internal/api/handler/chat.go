package handler

import (
	"net/http"
	"strings"
	"time"

	"pairwave/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// MessageDTO is the wire shape of a delivered message on the polling and
// history endpoints.
type MessageDTO struct {
	SenderID  uint   `json:"sender_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// HistoryMessageDTO additionally carries the full order key so a client can
// seed its catch-up watermark from history.
type HistoryMessageDTO struct {
	MessageDTO
	CreatedAt string `json:"created_at"`
	IsRead    bool   `json:"is_read"`
}

// ParseWatermark parses the client's last-seen timestamp. A trailing Z is
// normalized to an explicit UTC offset before the comparison, matching what
// polling clients send.
func ParseWatermark(raw string) (time.Time, error) {
	normalized := strings.ReplaceAll(raw, "Z", "+00:00")
	return time.Parse(time.RFC3339Nano, normalized)
}

// GetNewMessages is the catch-up path for clients without a live session:
// everything strictly newer than the supplied watermark, plus the new
// watermark. Identity scoping comes from the auth middleware; consent was
// established when the conversation came into existence, so it is not
// re-derived per poll.
func (h *Handler) GetNewMessages(c *gin.Context) {
	viewerID := currentUserID(c)

	peerID, err := parseID(c.Param("peerID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}

	rawWatermark := c.Param("lastTimestamp")
	watermark, err := ParseWatermark(rawWatermark)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid last_timestamp"})
		return
	}

	msgs, err := h.Storage.GetMessagesSince(viewerID, peerID, watermark)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	// The watermark never regresses: unchanged input when nothing matched.
	lastTimestamp := rawWatermark
	if len(msgs) > 0 {
		lastTimestamp = msgs[len(msgs)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": lo.Map(msgs, func(m models.Message, _ int) MessageDTO {
			return MessageDTO{SenderID: m.SenderID, Content: m.Content, Timestamp: m.ClockTime()}
		}),
		"last_timestamp": lastTimestamp,
	})
}

// GetHistory returns the full conversation with a peer, oldest first, and
// marks the peer's messages as read. Gated on mutual consent like the
// realtime path.
func (h *Handler) GetHistory(c *gin.Context) {
	viewerID := currentUserID(c)

	peerID, err := parseID(c.Param("peerID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
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

	msgs, err := h.Storage.GetConversation(viewerID, peerID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}

	if err := h.Storage.MarkConversationRead(viewerID, peerID); err != nil {
		// Reading still succeeded; the unread flag catches up next time.
		h.Log.Warn("failed to mark conversation read")
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": lo.Map(msgs, func(m models.Message, _ int) HistoryMessageDTO {
			return HistoryMessageDTO{
				MessageDTO: MessageDTO{SenderID: m.SenderID, Content: m.Content, Timestamp: m.ClockTime()},
				CreatedAt:  m.CreatedAt.Format(time.RFC3339Nano),
				IsRead:     m.IsRead,
			}
		}),
	})
}

// GetInbox lists the ids of everyone the caller has a conversation with.
func (h *Handler) GetInbox(c *gin.Context) {
	viewerID := currentUserID(c)

	peerIDs, err := h.Storage.GetInterlocutorIDs(viewerID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load inbox"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"peer_ids": peerIDs})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddLike records the caller's interest in a peer. Repeating the call is a
// no-op reported as created=false, so the button can be pressed twice
// without side effects.
func (h *Handler) AddLike(c *gin.Context) {
	viewerID := currentUserID(c)

	peerID, err := parseID(c.Param("peerID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}
	if peerID == viewerID {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot like yourself"})
		return
	}

	created, err := h.Gate.RecordInterest(viewerID, peerID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to record interest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}

// GetLikesReceived lists the ids of everyone who liked the caller, newest
// first.
func (h *Handler) GetLikesReceived(c *gin.Context) {
	viewerID := currentUserID(c)

	likerIDs, err := h.Storage.GetLikerIDs(viewerID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liker_ids": likerIDs})
}

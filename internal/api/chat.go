package api

import (
	"net/http"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service *messaging.Service
}

func NewChatHandler(service *messaging.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// SendMessage handles sending a new message about a listing
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("لطفاً تمام فیلدها را پر کنید"))
		return
	}

	msg, err := h.service.Send(c.Request.Context(), viewerFrom(c), req.ListingID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
	})
}

// GetConversation returns the caller's thread for a listing and marks the
// other party's messages as read.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	listingID := c.Query("listingId")
	if listingID == "" {
		respondError(c, apperr.Validation("شناسه آگهی ارسال نشده"))
		return
	}

	thread, err := h.service.Thread(c.Request.Context(), viewerFrom(c), listingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"messages":        thread.Messages,
		"otherPartyPhone": thread.CounterpartAlias,
		"isOwner":         thread.IsOwner,
	})
}

// GetConversations lists the caller's conversations grouped by listing and
// other party, most recent first.
func (h *ChatHandler) GetConversations(c *gin.Context) {
	convs, err := h.service.Conversations(c.Request.Context(), viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"conversations": convs,
	})
}

// ListThreads lists the caller's conversations grouped by stored
// conversation id.
func (h *ChatHandler) ListThreads(c *gin.Context) {
	convs, err := h.service.Threads(c.Request.Context(), viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"conversations": convs,
	})
}

// GetUnreadCount retrieves total unread message count for current user
func (h *ChatHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

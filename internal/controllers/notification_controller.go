package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rutapay/internal/middleware"
	"rutapay/internal/models"
	"rutapay/internal/repository"
)

type NotificationController struct {
	repo repository.NotificationRepository
}

func NewNotificationController(repo repository.NotificationRepository) *NotificationController {
	return &NotificationController{repo: repo}
}

// List returns the authenticated user's notifications, newest first.
// Supports ?limit=, ?offset= and ?unread_only=true.
func (nc *NotificationController) List(c *gin.Context) {
	userID := middleware.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unreadOnly := c.Query("unread_only") == "true"

	notes, err := nc.repo.ListForUser(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	unread, err := nc.repo.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         notes,
		"unread_count": unread,
	})
}

// UnreadCount returns only the badge number, for cheap polling.
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	unread, err := nc.repo.CountUnread(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": unread})
}

// MarkRead flips one notification to read. Only the recipient or an admin
// may do it; the response carries the updated row and the recipient's new
// unread count.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := nc.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actorID := middleware.UserID(c)
	if note.UserID != actorID && middleware.Role(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may only mark your own notifications as read."})
		return
	}

	if err := nc.repo.MarkRead(c.Request.Context(), note); err != nil {
		respondServiceError(c, err)
		return
	}

	unread, err := nc.repo.CountUnread(c.Request.Context(), note.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": note,
		"unread_count": unread,
	})
}

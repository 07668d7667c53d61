package server

import (
	"net/http"

	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
)

// ListNotifications returns the viewer's notifications newest first, with
// issuer profile and related post content embedded.
func (s *Server) ListNotifications(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	cursor, err := cursorFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var notifications []model.Notification
	if err := s.DB.Model(&model.Notification{}).
		Preload("Issuer").
		Preload("Post").
		Where("recipient_id = ?", userId).
		Scopes(scopeNewestFirst(cursor, "notifications")).
		Limit(notificationsPageSize + 1).
		Find(&notifications).Error; err != nil {
		Logger.Log.Error("fail to fetch notifications page: ", err)
		internalError(c)
		return
	}

	var nextCursor *string
	if len(notifications) > notificationsPageSize {
		notifications = notifications[:notificationsPageSize]
		last := notifications[len(notifications)-1]
		encoded := encodeCursor(last.CreatedAt, last.Id)
		nextCursor = &encoded
	}

	items := []NotificationData{}
	for idx := range notifications {
		items = append(items, s.notificationData(&notifications[idx], userId))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "nextCursor": nextCursor})
}

// MarkNotificationsRead flips all of the viewer's unread notifications to
// read.
func (s *Server) MarkNotificationsRead(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	if err := s.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", userId, false).
		Update("read", true).Error; err != nil {
		Logger.Log.Error("fail to mark notifications read: ", err)
		internalError(c)
		return
	}

	s.Redis.InvalidateUnreadNotificationCount(userId)
	c.JSON(http.StatusOK, gin.H{"message": "notifications marked as read"})
}

// NotificationUnreadCount returns the viewer's unread notification count,
// served from the redis counter cache when warm.
func (s *Server) NotificationUnreadCount(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	if count, hit := s.Redis.GetUnreadNotificationCount(userId); hit {
		c.JSON(http.StatusOK, gin.H{"unreadCount": count})
		return
	}

	var count int64
	if err := s.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", userId, false).
		Count(&count).Error; err != nil {
		Logger.Log.Error("fail to count unread notifications: ", err)
		internalError(c)
		return
	}
	s.Redis.SetUnreadNotificationCount(userId, count)
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

package server

import (
	"net/http"
	"time"

	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
)

const (
	chatTokenLifetime = time.Hour
	// Issued-at is backdated to absorb clock skew between us and the chat
	// backend.
	chatTokenIssuedAtLeeway = time.Minute
)

// ChatToken mints a short-lived chat backend token for the viewer.
func (s *Server) ChatToken(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	now := time.Now()
	token, err := s.Chat.CreateToken(userId, now.Add(chatTokenLifetime), now.Add(-chatTokenIssuedAtLeeway))
	if err != nil {
		Logger.Log.Error("fail to create chat token: ", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ChatUnreadCount proxies the viewer's total unread message count from the
// chat backend.
func (s *Server) ChatUnreadCount(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := s.Chat.TotalUnreadCount(c.Request.Context(), userId)
	if err != nil {
		Logger.Log.Error("fail to fetch chat unread count: ", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

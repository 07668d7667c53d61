package server

import (
	"net/http"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/socialmux/chat"
	"github.com/Luismorlan/socialmux/filestore"
	"github.com/Luismorlan/socialmux/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server holds every collaborator a handler may need. All handlers are
// stateless, per-request mutual exclusion is delegated to the database's
// unique constraints and transactions.
type Server struct {
	DB     *gorm.DB
	Redis  *utils.RedisClient
	Store  filestore.FileStore
	Chat   chat.Service
	Statsd *statsd.Client

	// WebhookSecret verifies inbound identity provider events.
	WebhookSecret string
	// CronSecret is the shared bearer secret of the scheduled cleanup route.
	CronSecret string
}

// incr bumps a statsd counter, no-op without a statsd client (tests).
func (s *Server) incr(name string, tags ...string) {
	if s.Statsd == nil {
		return
	}
	s.Statsd.Incr(name, tags, 1)
}

// currentUserId returns the authenticated subject stored by the session
// middleware, empty when the request carries no session.
func currentUserId(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}

// requireUser aborts with 401 unless the request is authenticated.
func requireUser(c *gin.Context) (string, bool) {
	userId := currentUserId(c)
	if userId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no valid session"})
		return "", false
	}
	return userId, true
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// RegisterRoutes attaches the full HTTP surface. sessionMiddleware guards the
// /api group, pass nil to bypass (local development, handler tests). The
// webhook and cleanup routes authenticate on their own and are always
// registered without the session middleware.
func (s *Server) RegisterRoutes(router *gin.Engine, sessionMiddleware gin.HandlerFunc) {
	api := router.Group("/api")
	if sessionMiddleware != nil {
		api.Use(sessionMiddleware)
	}

	// Feed routes live under /feed rather than /posts because gin's route tree
	// cannot mix static segments with the :postId wildcard.
	api.GET("/feed/for-you", s.ForYouFeed)
	api.GET("/feed/following", s.FollowingFeed)
	api.GET("/feed/bookmarked", s.BookmarkedFeed)
	api.POST("/posts", s.CreatePost)
	api.GET("/posts/:postId", s.GetPost)
	api.DELETE("/posts/:postId", s.DeletePost)

	api.GET("/posts/:postId/likes", s.GetLikeInfo)
	api.POST("/posts/:postId/likes", s.LikePost)
	api.DELETE("/posts/:postId/likes", s.UnlikePost)

	api.GET("/posts/:postId/bookmark", s.GetBookmarkInfo)
	api.POST("/posts/:postId/bookmark", s.BookmarkPost)
	api.DELETE("/posts/:postId/bookmark", s.UnbookmarkPost)

	api.GET("/posts/:postId/comments", s.ListComments)
	api.POST("/posts/:postId/comments", s.CreateComment)
	api.DELETE("/comments/:commentId", s.DeleteComment)

	api.GET("/users/:userId/followers", s.GetFollowerInfo)
	api.POST("/users/:userId/followers", s.FollowUser)
	api.DELETE("/users/:userId/followers", s.UnfollowUser)

	api.GET("/users/:userId", s.GetUser)
	api.GET("/users/:userId/posts", s.UserPostsFeed)
	api.GET("/profiles/:username", s.GetUserByUsername)
	api.PATCH("/users/me", s.UpdateProfile)

	api.GET("/search", s.SearchPosts)

	api.GET("/notifications", s.ListNotifications)
	api.PATCH("/notifications/mark-as-read", s.MarkNotificationsRead)
	api.GET("/notifications/unread-count", s.NotificationUnreadCount)

	api.POST("/media", s.UploadMedia)

	api.GET("/chat/token", s.ChatToken)
	api.GET("/chat/unread-count", s.ChatUnreadCount)

	router.POST("/webhook/register", s.HandleProviderEvent)
	router.GET("/cleanup/orphans", s.CleanupOrphanedMedia)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

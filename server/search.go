package server

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

// SearchPosts returns the paginated posts whose content or author handle
// matches the q parameter, newest first. An empty q degrades to the global
// feed, matching the behavior of an empty search box.
func (s *Server) SearchPosts(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	q := "%" + c.Query("q") + "%"

	s.pagedPosts(c, userId, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN users ON users.id = posts.user_id").
			Where("posts.content ILIKE ? OR users.username ILIKE ? OR users.display_name ILIKE ?", q, q, q)
	})
}

package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// Bookmarks are private to their owner, no notification fan-out happens here.

func (s *Server) GetBookmarkInfo(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	postId := c.Param("postId")

	var post model.Post
	if result := s.DB.First(&post, "id = ?", postId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var n int64
	s.DB.Model(&model.Bookmark{}).Where("post_id = ? AND user_id = ?", postId, userId).Count(&n)
	c.JSON(http.StatusOK, gin.H{"isBookmarkedByUser": n > 0})
}

func (s *Server) BookmarkPost(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	postId := c.Param("postId")

	var post model.Post
	if result := s.DB.First(&post, "id = ?", postId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	bookmark := model.Bookmark{UserID: userId, PostID: postId, CreatedAt: time.Now()}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&bookmark).Error; err != nil {
		Logger.Log.Error("fail to bookmark post: ", err)
		internalError(c)
		return
	}
	s.incr("bookmark.created")
	c.JSON(http.StatusOK, gin.H{"message": "post bookmarked"})
}

func (s *Server) UnbookmarkPost(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	postId := c.Param("postId")

	if err := s.DB.Where("user_id = ? AND post_id = ?", userId, postId).
		Delete(&model.Bookmark{}).Error; err != nil {
		Logger.Log.Error("fail to remove bookmark: ", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bookmark removed"})
}

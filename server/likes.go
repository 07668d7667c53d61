package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetLikeInfo returns the like count of a post and whether the viewer has
// liked it.
func (s *Server) GetLikeInfo(c *gin.Context) {
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

	var likes int64
	s.DB.Model(&model.Like{}).Where("post_id = ?", postId).Count(&likes)
	var viewerLikes int64
	s.DB.Model(&model.Like{}).Where("post_id = ? AND user_id = ?", postId, userId).Count(&viewerLikes)

	c.JSON(http.StatusOK, gin.H{"likes": likes, "isLikedByUser": viewerLikes > 0})
}

// LikePost creates the like edge and fans out a LIKE notification to the post
// owner in the same transaction. The notification is only written when the
// edge is newly created, a duplicate like is a no-op end to end, and a
// self-like never notifies.
func (s *Server) LikePost(c *gin.Context) {
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

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		like := model.Like{UserID: userId, PostID: postId, CreatedAt: time.Now()}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 || userId == post.UserID {
			return nil
		}
		return tx.Create(&model.Notification{
			Id:          uuid.New().String(),
			CreatedAt:   time.Now(),
			Type:        model.NotificationTypeLike,
			IssuerID:    userId,
			RecipientID: post.UserID,
			PostID:      &postId,
		}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to like post: ", err)
		internalError(c)
		return
	}

	s.Redis.InvalidateUnreadNotificationCount(post.UserID)
	s.incr("like.created")
	c.JSON(http.StatusOK, gin.H{"message": "post liked"})
}

// UnlikePost removes the like edge and the matching notification in the same
// transaction. Both deletes are no-ops when nothing matches, concurrent
// duplicate calls are safe.
func (s *Server) UnlikePost(c *gin.Context) {
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

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND post_id = ?", userId, postId).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("issuer_id = ? AND recipient_id = ? AND post_id = ? AND type = ?",
			userId, post.UserID, postId, model.NotificationTypeLike).
			Delete(&model.Notification{}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to unlike post: ", err)
		internalError(c)
		return
	}

	s.Redis.InvalidateUnreadNotificationCount(post.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "like removed"})
}

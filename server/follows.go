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

// GetFollowerInfo returns the target user's follower count and whether the
// viewer follows them.
func (s *Server) GetFollowerInfo(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	targetId := c.Param("userId")

	var target model.User
	if result := s.DB.First(&target, "id = ?", targetId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var followers int64
	s.DB.Model(&model.Follow{}).Where("following_id = ?", targetId).Count(&followers)
	var viewerFollows int64
	s.DB.Model(&model.Follow{}).Where("follower_id = ? AND following_id = ?", userId, targetId).Count(&viewerFollows)

	c.JSON(http.StatusOK, gin.H{"followers": followers, "isFollowedByUser": viewerFollows > 0})
}

// FollowUser creates the follow edge and fans out a FOLLOW notification to
// the target in the same transaction. Following yourself creates the edge but
// never a notification, and a duplicate follow is a no-op end to end.
func (s *Server) FollowUser(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	targetId := c.Param("userId")

	var target model.User
	if result := s.DB.First(&target, "id = ?", targetId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		follow := model.Follow{FollowerID: userId, FollowingID: targetId, CreatedAt: time.Now()}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 || userId == targetId {
			return nil
		}
		return tx.Create(&model.Notification{
			Id:          uuid.New().String(),
			CreatedAt:   time.Now(),
			Type:        model.NotificationTypeFollow,
			IssuerID:    userId,
			RecipientID: targetId,
		}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to follow user: ", err)
		internalError(c)
		return
	}

	s.Redis.InvalidateUnreadNotificationCount(targetId)
	s.incr("follow.created")
	c.JSON(http.StatusOK, gin.H{"message": "followed"})
}

// UnfollowUser removes the follow edge and the matching notification in the
// same transaction.
func (s *Server) UnfollowUser(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	targetId := c.Param("userId")

	var target model.User
	if result := s.DB.First(&target, "id = ?", targetId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? AND following_id = ?", userId, targetId).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		return tx.Where("issuer_id = ? AND recipient_id = ? AND type = ? AND post_id IS NULL",
			userId, targetId, model.NotificationTypeFollow).
			Delete(&model.Notification{}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to unfollow user: ", err)
		internalError(c)
		return
	}

	s.Redis.InvalidateUnreadNotificationCount(targetId)
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

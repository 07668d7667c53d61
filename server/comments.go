package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createCommentInput struct {
	Content string `json:"content" binding:"required,max=500"`
}

// ListComments pages backwards through a post's comments. Comments display
// oldest first, so the client starts at the newest page and walks towards the
// beginning: the cursor marks the oldest comment already seen and the next
// page is the window of comments strictly before it, returned in ascending
// order with previousCursor pointing at its first entry.
func (s *Server) ListComments(c *gin.Context) {
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

	cursor, err := cursorFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comments []model.Comment
	if err := s.DB.Model(&model.Comment{}).
		Preload("User").
		Where("post_id = ?", postId).
		Scopes(scopeNewestFirst(cursor, "comments")).
		Limit(commentsPageSize + 1).
		Find(&comments).Error; err != nil {
		Logger.Log.Error("fail to fetch comments page: ", err)
		internalError(c)
		return
	}

	var previousCursor *string
	if len(comments) > commentsPageSize {
		comments = comments[:commentsPageSize]
		oldest := comments[len(comments)-1]
		encoded := encodeCursor(oldest.CreatedAt, oldest.Id)
		previousCursor = &encoded
	}

	// Reverse into display order, oldest first.
	items := []CommentData{}
	for idx := len(comments) - 1; idx >= 0; idx-- {
		items = append(items, s.commentData(&comments[idx], userId))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "previousCursor": previousCursor})
}

// CreateComment adds a comment and fans out a COMMENT notification to the
// post owner in the same transaction, skipped when commenting on one's own
// post.
func (s *Server) CreateComment(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	postId := c.Param("postId")

	var input createCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post model.Post
	if result := s.DB.First(&post, "id = ?", postId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	comment := model.Comment{
		Id:        uuid.New().String(),
		Content:   input.Content,
		UserID:    userId,
		PostID:    postId,
		CreatedAt: time.Now(),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if userId == post.UserID {
			return nil
		}
		return tx.Create(&model.Notification{
			Id:          uuid.New().String(),
			CreatedAt:   time.Now(),
			Type:        model.NotificationTypeComment,
			IssuerID:    userId,
			RecipientID: post.UserID,
			PostID:      &postId,
		}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to create comment: ", err)
		internalError(c)
		return
	}

	s.Redis.InvalidateUnreadNotificationCount(post.UserID)
	s.incr("comment.created")

	var created model.Comment
	s.DB.Preload("User").First(&created, "id = ?", comment.Id)
	c.JSON(http.StatusOK, s.commentData(&created, userId))
}

// DeleteComment removes the caller's own comment.
func (s *Server) DeleteComment(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var comment model.Comment
	result := s.DB.First(&comment, "id = ?", c.Param("commentId"))
	if result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if comment.UserID != userId {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the comment owner"})
		return
	}

	if err := s.DB.Delete(&comment).Error; err != nil {
		Logger.Log.Error("fail to delete comment: ", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

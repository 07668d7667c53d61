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

const maxAttachmentsPerPost = 5

type createPostInput struct {
	Content  string   `json:"content" binding:"required,max=1000"`
	MediaIds []string `json:"mediaIds" binding:"omitempty,max=5"`
}

// pagedPosts runs the shared keyset pagination flow: fetch pageSize+1 posts
// newest first after the cursor, strip the probe row and derive nextCursor
// from the last returned item. scope narrows the window query per endpoint.
func (s *Server) pagedPosts(c *gin.Context, viewerId string, scope func(db *gorm.DB) *gorm.DB) {
	cursor, err := cursorFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := s.DB.Model(&model.Post{}).
		Preload("User").
		Preload("Attachments").
		Preload("Likes").
		Preload("Comments").
		Preload("Bookmarks").
		Scopes(scopeNewestFirst(cursor, "posts")).
		Limit(postsPageSize + 1)
	if scope != nil {
		query = query.Scopes(scope)
	}

	var posts []model.Post
	if err := query.Find(&posts).Error; err != nil {
		Logger.Log.Error("fail to fetch posts page: ", err)
		internalError(c)
		return
	}

	var nextCursor *string
	if len(posts) > postsPageSize {
		posts = posts[:postsPageSize]
		last := posts[len(posts)-1]
		encoded := encodeCursor(last.CreatedAt, last.Id)
		nextCursor = &encoded
	}

	items := []PostData{}
	for idx := range posts {
		items = append(items, s.postData(&posts[idx], viewerId))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "nextCursor": nextCursor})
}

// ForYouFeed returns the global newest-first post feed.
func (s *Server) ForYouFeed(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	s.pagedPosts(c, userId, nil)
}

// FollowingFeed returns posts authored by users the viewer follows.
func (s *Server) FollowingFeed(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	s.pagedPosts(c, userId, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id IN (?)",
			s.DB.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", userId))
	})
}

// BookmarkedFeed returns posts the viewer has bookmarked.
func (s *Server) BookmarkedFeed(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	s.pagedPosts(c, userId, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
			Where("bookmarks.user_id = ?", userId)
	})
}

// UserPostsFeed returns posts authored by the user in the path.
func (s *Server) UserPostsFeed(c *gin.Context) {
	viewerId, ok := requireUser(c)
	if !ok {
		return
	}
	targetId := c.Param("userId")
	s.pagedPosts(c, viewerId, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id = ?", targetId)
	})
}

// CreatePost creates a post and attaches pending media uploads to it. The
// media attach happens in the same transaction, a failed attach leaves no
// half-created post behind.
func (s *Server) CreatePost(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var input createPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := model.Post{
		Id:        uuid.New().String(),
		Content:   input.Content,
		UserID:    userId,
		CreatedAt: time.Now(),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if len(input.MediaIds) == 0 {
			return nil
		}
		// Only claim the author's own uploads that are still unattached, an id
		// that belongs to another post or another uploader is silently skipped.
		return tx.Model(&model.Media{}).
			Where("id IN ? AND post_id IS NULL AND uploader_id = ?", input.MediaIds, userId).
			Update("post_id", post.Id).Error
	})
	if err != nil {
		Logger.Log.Error("fail to create post: ", err)
		internalError(c)
		return
	}
	s.incr("post.created")

	var created model.Post
	s.DB.Preload("User").Preload("Attachments").Preload("Likes").Preload("Comments").Preload("Bookmarks").
		First(&created, "id = ?", post.Id)
	c.JSON(http.StatusOK, s.postData(&created, userId))
}

// GetPost returns a single post with engagement state for the viewer.
func (s *Server) GetPost(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var post model.Post
	result := s.DB.Preload("User").Preload("Attachments").Preload("Likes").Preload("Comments").Preload("Bookmarks").
		First(&post, "id = ?", c.Param("postId"))
	if result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, s.postData(&post, userId))
}

// DeletePost removes the caller's own post. Likes, comments, bookmarks and
// notifications referencing the post are removed by the database cascade,
// attached media is detached and picked up later by the orphan cleanup.
func (s *Server) DeletePost(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var post model.Post
	result := s.DB.First(&post, "id = ?", c.Param("postId"))
	if result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if post.UserID != userId {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the post owner"})
		return
	}

	if err := s.DB.Delete(&post).Error; err != nil {
		Logger.Log.Error("fail to delete post: ", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

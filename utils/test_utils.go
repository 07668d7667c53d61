package utils

import (
	"testing"
	"time"

	"github.com/Luismorlan/socialmux/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Seed helpers shared by handler and client tests. They write through the DB
// directly instead of the HTTP surface so that each test only exercises the
// endpoint under test.

// CreateTestUser inserts a user keyed by the given provider id and returns it.
func CreateTestUser(t *testing.T, db *gorm.DB, id string, username string) *model.User {
	t.Helper()
	user := model.User{
		Id:          id,
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: username,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// CreateTestPost inserts a post owned by the given user. createdAt controls
// the feed sort position.
func CreateTestPost(t *testing.T, db *gorm.DB, userId string, content string, createdAt time.Time) *model.Post {
	t.Helper()
	post := model.Post{
		Id:        uuid.New().String(),
		Content:   content,
		UserID:    userId,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

// CreateTestMedia inserts a media row uploaded by uploaderId, attached to
// postId when non-nil.
func CreateTestMedia(t *testing.T, db *gorm.DB, uploaderId string, postId *string, createdAt time.Time) *model.Media {
	t.Helper()
	media := model.Media{
		Id:         uuid.New().String(),
		Url:        "https://cdn.example.com/" + uuid.New().String(),
		FileId:     uuid.New().String(),
		Type:       model.MediaTypeImage,
		UploaderID: uploaderId,
		PostID:     postId,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&media).Error)
	return &media
}

// CreateTestComment inserts a comment on the given post.
func CreateTestComment(t *testing.T, db *gorm.DB, userId, postId, content string, createdAt time.Time) *model.Comment {
	t.Helper()
	comment := model.Comment{
		Id:        uuid.New().String(),
		Content:   content,
		UserID:    userId,
		PostID:    postId,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&comment).Error)
	return &comment
}

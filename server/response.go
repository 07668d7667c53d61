package server

import (
	"time"

	"github.com/Luismorlan/socialmux/model"
	"github.com/jinzhu/copier"
)

// Response DTOs. Engagement flags are always computed relative to the viewer
// issuing the request, never stored.

type UserData struct {
	Id                 string    `json:"id"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"displayName"`
	AvatarUrl          string    `json:"avatarUrl"`
	Bio                string    `json:"bio"`
	CreatedAt          time.Time `json:"createdAt"`
	FollowerCount      int64     `json:"followerCount"`
	PostCount          int64     `json:"postCount"`
	IsFollowedByViewer bool      `json:"isFollowedByViewer"`
}

type MediaData struct {
	Id   string `json:"id"`
	Url  string `json:"url"`
	Type string `json:"type"`
}

type PostData struct {
	Id                   string      `json:"id"`
	Content              string      `json:"content"`
	CreatedAt            time.Time   `json:"createdAt"`
	User                 UserData    `json:"user"`
	Attachments          []MediaData `json:"attachments"`
	LikeCount            int         `json:"likeCount"`
	CommentCount         int         `json:"commentCount"`
	IsLikedByViewer      bool        `json:"isLikedByViewer"`
	IsBookmarkedByViewer bool        `json:"isBookmarkedByViewer"`
}

type CommentData struct {
	Id        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	PostID    string    `json:"postId"`
	User      UserData  `json:"user"`
}

type NotificationData struct {
	Id          string    `json:"id"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	Read        bool      `json:"read"`
	Issuer      UserData  `json:"issuer"`
	PostID      *string   `json:"postId"`
	PostContent *string   `json:"postContent"`
}

// userData builds the profile DTO for a user as seen by viewerId. The three
// small lookups per user are fine at this fan-out, feeds preload authors and
// the page size is bounded.
func (s *Server) userData(user *model.User, viewerId string) UserData {
	var data UserData
	copier.Copy(&data, user)

	s.DB.Model(&model.Follow{}).Where("following_id = ?", user.Id).Count(&data.FollowerCount)
	s.DB.Model(&model.Post{}).Where("user_id = ?", user.Id).Count(&data.PostCount)
	if viewerId != "" && viewerId != user.Id {
		var n int64
		s.DB.Model(&model.Follow{}).
			Where("follower_id = ? AND following_id = ?", viewerId, user.Id).
			Count(&n)
		data.IsFollowedByViewer = n > 0
	}
	return data
}

// postData builds the post DTO from a post loaded with its User, Attachments,
// Likes, Comments and Bookmarks associations.
func (s *Server) postData(post *model.Post, viewerId string) PostData {
	data := PostData{
		Id:          post.Id,
		Content:     post.Content,
		CreatedAt:   post.CreatedAt,
		User:        s.userData(&post.User, viewerId),
		Attachments: []MediaData{},
	}
	for _, media := range post.Attachments {
		data.Attachments = append(data.Attachments, MediaData{Id: media.Id, Url: media.Url, Type: media.Type})
	}
	data.LikeCount = len(post.Likes)
	data.CommentCount = len(post.Comments)
	for _, like := range post.Likes {
		if like.UserID == viewerId {
			data.IsLikedByViewer = true
		}
	}
	for _, bookmark := range post.Bookmarks {
		if bookmark.UserID == viewerId {
			data.IsBookmarkedByViewer = true
		}
	}
	return data
}

func (s *Server) commentData(comment *model.Comment, viewerId string) CommentData {
	return CommentData{
		Id:        comment.Id,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		PostID:    comment.PostID,
		User:      s.userData(&comment.User, viewerId),
	}
}

func (s *Server) notificationData(notification *model.Notification, viewerId string) NotificationData {
	data := NotificationData{
		Id:        notification.Id,
		Type:      notification.Type,
		CreatedAt: notification.CreatedAt,
		Read:      notification.Read,
		Issuer:    s.userData(&notification.Issuer, viewerId),
		PostID:    notification.PostID,
	}
	if notification.Post != nil {
		content := notification.Post.Content
		data.PostContent = &content
	}
	return data
}

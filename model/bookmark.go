package model

import "time"

/*

Bookmark is a "many-to-many" relation of user saving a post

UserID: user id
PostID: post id
CreatedAt: time when relation is created

Unlike Like, bookmarking never fans out a notification.

*/

type Bookmark struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

package model

import "time"

/*

Comment is a user's reply on a post

Id: primary key
CreatedAt: time when entity is created, comments list oldest first
Content: comment body in plain text
UserID:
User: comment author, "belongs-to" relation
PostID: post being commented on

*/

type Comment struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index:idx_comments_created_at_id,priority:1"`
	Content   string
	UserID    string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID    string `gorm:"index"`
}

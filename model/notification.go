package model

import "time"

const (
	NotificationTypeFollow  = "FOLLOW"
	NotificationTypeLike    = "LIKE"
	NotificationTypeComment = "COMMENT"
)

/*

Notification is a typed engagement event fanned out to a recipient

Id: primary key
CreatedAt: time when entity is created
Type: NotificationTypeFollow / NotificationTypeLike / NotificationTypeComment
IssuerID:
Issuer: user whose action produced the notification
RecipientID: user being notified. Never equals IssuerID, self engagement
skips fan-out entirely.
PostID:
Post: related post for LIKE and COMMENT, nil for FOLLOW
Read: whether the recipient has seen it

A notification row is only ever written in the same transaction as the
engagement row it derives from.

*/

type Notification struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"index:idx_notifications_created_at_id,priority:1"`
	Type        string
	IssuerID    string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Issuer      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RecipientID string `gorm:"index"`
	PostID      *string
	Post        *Post
	Read        bool
}

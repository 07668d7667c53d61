package model

import "time"

/*

Post is a piece of user generated content

Id: primary key
CreatedAt: time when entity is created, also the feed sort key together
with Id as tie breaker

Content: post body in plain text
UserID:
User: author of this post, "belongs-to" relation

Attachments: media uploaded for this post. Deleting a post detaches its
media instead of deleting it, the detached rows become orphans and are
garbage collected by the scheduled cleanup.
Likes / Comments / Bookmarks / Notifications: engagement rows referencing
this post, all removed by the database when the post is deleted.

*/

type Post struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index:idx_posts_created_at_id,priority:1"`
	Content   string
	UserID    string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Attachments   []*Media        `json:"attachments" gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL;"`
	Likes         []*Like         `json:"likes" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Comments      []*Comment      `json:"comments" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Bookmarks     []*Bookmark     `json:"bookmarks" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Notifications []*Notification `json:"notifications" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

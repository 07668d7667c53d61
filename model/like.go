package model

import "time"

/*

Like is a "many-to-many" relation of user liking a post

UserID: user id
PostID: post id
CreatedAt: time when relation is created

Existence of the row is the only signal. Rows are hard deleted on unlike
so the composite primary key stays reusable for a later re-like.

*/

type Like struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

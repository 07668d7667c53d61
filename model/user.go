package model

import "time"

/*

User is a locally mirrored profile of an identity provider account

Id: primary key, this is the identity provider's user id, not a locally
generated one. Using the provider id as primary key is what makes webhook
provisioning idempotent: a redelivered "user.created" event conflicts on
insert instead of creating a second row.
CreatedAt: time when entity is created

Email: primary email address reported by the identity provider
Username: unique handle
DisplayName: free-form display name
AvatarUrl: profile picture url hosted by the identity provider
Bio: free-form profile text

Posts: all posts authored by this user, "has-many" relation
Followers: follow edges pointing at this user
Following: follow edges originating from this user

*/

type User struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	Email       string
	Username    string `gorm:"uniqueIndex"`
	DisplayName string
	AvatarUrl   string
	Bio         string

	Posts     []*Post   `json:"posts" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Followers []*Follow `json:"followers" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;"`
	Following []*Follow `json:"following" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	Likes     []*Like   `json:"likes" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Bookmarks []*Bookmark `json:"bookmarks" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Comments  []*Comment  `json:"comments" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}
